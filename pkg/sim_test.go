package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig(protocolName string) Config {
	return Config{
		Protocol:      protocolName,
		TotalPackets:  5,
		WindowSize:    4,
		PayloadSize:   5,
		MaxDelayTicks: 3,
		TimeoutTicks:  20,
		BudgetTicks:   300,
		Rand:          &scriptRand{},
	}
}

func TestRunSimulationIdealChannel(t *testing.T) {
	expected := make([]string, 5)
	for i := range expected {
		expected[i] = MakePayload(i, 5)
	}

	for _, name := range []string{StopAndWait, GoBackN, SelectiveRepeat} {
		t.Run(name, func(t *testing.T) {
			delivered, summary, err := RunSimulation(baseConfig(name), nil)
			require.NoError(t, err)

			assert.Equal(t, expected, delivered)
			assert.Equal(t, name, summary.Protocol)
			assert.Equal(t, 5, summary.DeliveredCount)
			assert.Equal(t, 1.0, summary.SuccessRate)
			assert.False(t, summary.TimedOut)
			assert.Less(t, summary.ElapsedTicks, Tick(300))
		})
	}
}

func TestRunSimulationTotalLoss(t *testing.T) {
	for _, name := range []string{StopAndWait, GoBackN, SelectiveRepeat} {
		t.Run(name, func(t *testing.T) {
			cfg := baseConfig(name)
			cfg.LossProbability = 1.0
			cfg.BudgetTicks = 50
			cfg.Rand = &fixedRand{f: 0}

			delivered, summary, err := RunSimulation(cfg, nil)
			require.NoError(t, err)

			assert.Empty(t, delivered)
			assert.Zero(t, summary.DeliveredCount)
			assert.True(t, summary.TimedOut)
			assert.Equal(t, Tick(50), summary.ElapsedTicks, "the whole budget elapses")
			assert.Zero(t, summary.SuccessRate)
		})
	}
}

// The windowed protocols must deliver everything in order even when every
// packet is held for an arbitrary time, arriving reordered.
func TestRunSimulationDelayOnlyReordering(t *testing.T) {
	expected := make([]string, 8)
	for i := range expected {
		expected[i] = MakePayload(i, 5)
	}

	for _, name := range []string{GoBackN, SelectiveRepeat} {
		t.Run(name, func(t *testing.T) {
			cfg := baseConfig(name)
			cfg.TotalPackets = 8
			cfg.DelayProbability = 1.0
			cfg.BudgetTicks = 2000
			// Every fault sample triggers only the delay branch (loss and
			// corruption probabilities are zero); cycling hold times force
			// reordering.
			cfg.Rand = &fixedRand{f: 0, ints: []int{2, 0, 1}}

			delivered, summary, err := RunSimulation(cfg, nil)
			require.NoError(t, err)

			assert.Equal(t, expected, delivered)
			assert.False(t, summary.TimedOut)
			assert.Equal(t, 1.0, summary.SuccessRate)
		})
	}
}

func TestRunSimulationDefaultRandomness(t *testing.T) {
	// nil Rand exercises the seeded stream default; with no faults
	// configured the outcome is unaffected by the sampled values.
	cfg := baseConfig(StopAndWait)
	cfg.Rand = nil
	SetMasterSeed(42)

	delivered, summary, err := RunSimulation(cfg, nil)
	require.NoError(t, err)
	assert.Len(t, delivered, 5)
	assert.False(t, summary.TimedOut)
}

func TestConfigValidation(t *testing.T) {
	t.Run("UnknownProtocolFailsFast", func(t *testing.T) {
		cfg := baseConfig("rdt")
		_, _, err := RunSimulation(cfg, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown protocol "rdt"`)
	})

	t.Run("ProbabilityOutOfRange", func(t *testing.T) {
		cfg := baseConfig(GoBackN)
		cfg.CorruptionProbability = 1.5
		_, _, err := RunSimulation(cfg, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "corruption probability")
	})

	t.Run("WindowedProtocolNeedsWindow", func(t *testing.T) {
		cfg := baseConfig(SelectiveRepeat)
		cfg.WindowSize = 0
		_, _, err := RunSimulation(cfg, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "window size")
	})

	t.Run("StopAndWaitIgnoresWindow", func(t *testing.T) {
		cfg := baseConfig(StopAndWait)
		cfg.WindowSize = 0
		_, _, err := RunSimulation(cfg, nil)
		assert.NoError(t, err)
	})

	t.Run("DelayNeedsPositiveMaxDelay", func(t *testing.T) {
		cfg := baseConfig(GoBackN)
		cfg.DelayProbability = 0.5
		cfg.MaxDelayTicks = 0
		_, _, err := RunSimulation(cfg, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max delay")
	})

	t.Run("NonPositiveCounts", func(t *testing.T) {
		cfg := baseConfig(GoBackN)
		cfg.TotalPackets = 0
		_, _, err := RunSimulation(cfg, nil)
		assert.Error(t, err)

		cfg = baseConfig(GoBackN)
		cfg.BudgetTicks = 0
		_, _, err = RunSimulation(cfg, nil)
		assert.Error(t, err)

		cfg = baseConfig(GoBackN)
		cfg.TimeoutTicks = 0
		_, _, err = RunSimulation(cfg, nil)
		assert.Error(t, err)
	})
}

// An ack emitted while the receiver processes a tick's batch must not reach
// the sender within the same tick.
func TestRunSimulationOneTickMinimumRoundTrip(t *testing.T) {
	cfg := baseConfig(StopAndWait)
	cfg.TotalPackets = 1

	_, summary, err := RunSimulation(cfg, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, summary.ElapsedTicks, Tick(2),
		"delivery on tick 0, ack consumable no earlier than tick 1")
}
