package simconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	protocol "github.com/sunnyallana/reliable-data-transfer/pkg"
)

func writeScenario(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestParse(t *testing.T) {
	t.Run("OverridesAndDefaults", func(t *testing.T) {
		path := writeScenario(t, `
protocol: go-back-n
totalPackets: 20
lossProbability: 0.3
seed: 7
`)
		scenario, err := Parse(path)
		require.NoError(t, err)

		assert.Equal(t, protocol.GoBackN, scenario.Protocol)
		assert.Equal(t, 20, scenario.TotalPackets)
		assert.Equal(t, 0.3, scenario.LossProbability)
		assert.Equal(t, uint64(7), scenario.Seed)
		assert.Equal(t, 4, scenario.WindowSize, "unset fields keep their defaults")
		assert.Equal(t, int64(20), scenario.TimeoutTicks)
		assert.Equal(t, int64(300), scenario.BudgetTicks)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Parse(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading scenario file")
	})

	t.Run("MalformedYAML", func(t *testing.T) {
		path := writeScenario(t, "protocol: [unterminated")
		_, err := Parse(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing scenario file")
	})
}

func TestScenarioConfig(t *testing.T) {
	t.Run("ValidScenario", func(t *testing.T) {
		scenario := Default()
		scenario.Protocol = protocol.SelectiveRepeat
		scenario.TotalPackets = 3

		cfg, err := scenario.Config()
		require.NoError(t, err)
		assert.Equal(t, protocol.SelectiveRepeat, cfg.Protocol)
		assert.Equal(t, 3, cfg.TotalPackets)
		assert.Equal(t, protocol.Tick(20), cfg.TimeoutTicks)
	})

	t.Run("InvalidScenarioRejected", func(t *testing.T) {
		scenario := Default()
		scenario.Protocol = "rdt"

		_, err := scenario.Config()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown protocol")
	})
}
