package protocol

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Protocol selectors accepted by RunSimulation.
const (
	StopAndWait     = "stop-and-wait"
	GoBackN         = "go-back-n"
	SelectiveRepeat = "selective-repeat"
)

// Config describes one simulation run. All durations are logical ticks.
type Config struct {
	Protocol              string
	TotalPackets          int
	WindowSize            int
	PayloadSize           int
	LossProbability       float64
	CorruptionProbability float64
	DelayProbability      float64
	MaxDelayTicks         int
	TimeoutTicks          Tick
	BudgetTicks           Tick

	// Rand overrides the channel's randomness; nil selects a seeded
	// rngstream stream. Tests script it to force exact fault sequences.
	Rand Rand
}

// Summary is the result record of a run.
type Summary struct {
	Protocol       string
	TotalPackets   int
	DeliveredCount int
	ElapsedTicks   Tick
	SuccessRate    float64
	TimedOut       bool
}

// Validate rejects a bad configuration before any simulation state exists.
func (cfg *Config) Validate() error {
	switch cfg.Protocol {
	case StopAndWait, GoBackN, SelectiveRepeat:
	default:
		return errors.Errorf("unknown protocol %q (want %q, %q or %q)",
			cfg.Protocol, StopAndWait, GoBackN, SelectiveRepeat)
	}
	if cfg.TotalPackets <= 0 {
		return errors.Errorf("total packets must be positive, got %d", cfg.TotalPackets)
	}
	if cfg.Protocol != StopAndWait && cfg.WindowSize <= 0 {
		return errors.Errorf("%s requires a positive window size, got %d", cfg.Protocol, cfg.WindowSize)
	}
	if cfg.PayloadSize < 0 {
		return errors.Errorf("payload size must not be negative, got %d", cfg.PayloadSize)
	}
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"loss", cfg.LossProbability},
		{"corruption", cfg.CorruptionProbability},
		{"delay", cfg.DelayProbability},
	} {
		if p.value < 0 || p.value > 1 {
			return errors.Errorf("%s probability must be in [0,1], got %v", p.name, p.value)
		}
	}
	if cfg.DelayProbability > 0 && cfg.MaxDelayTicks < 1 {
		return errors.Errorf("max delay must be at least 1 tick when delay probability is %v", cfg.DelayProbability)
	}
	if cfg.TimeoutTicks <= 0 {
		return errors.Errorf("timeout must be positive, got %d ticks", cfg.TimeoutTicks)
	}
	if cfg.BudgetTicks <= 0 {
		return errors.Errorf("budget must be positive, got %d ticks", cfg.BudgetTicks)
	}
	return nil
}

func buildPair(cfg Config, channel *Channel, clock Clock, log *zap.Logger) (Sender, Receiver) {
	switch cfg.Protocol {
	case StopAndWait:
		return NewStopWaitSender(channel, clock, cfg.TotalPackets, cfg.PayloadSize, cfg.TimeoutTicks, log),
			NewStopWaitReceiver(channel, log)
	case GoBackN:
		return NewGoBackNSender(channel, clock, cfg.TotalPackets, cfg.WindowSize, cfg.PayloadSize, cfg.TimeoutTicks, log),
			NewGoBackNReceiver(channel, log)
	default:
		return NewSelectiveRepeatSender(channel, clock, cfg.TotalPackets, cfg.WindowSize, cfg.PayloadSize, cfg.TimeoutTicks, log),
			NewSelectiveRepeatReceiver(channel, cfg.WindowSize, log)
	}
}

// RunSimulation drives one sender/receiver pair over an unreliable channel
// until every packet is acknowledged or the tick budget runs out.
//
// Each tick pulls both direction batches first, then feeds the receiver, then
// the sender, then runs the timeout check. Pulling the sender-bound batch
// before the receiver acts keeps an ack emitted this tick invisible until the
// next tick's poll, so a round trip always costs at least one tick.
func RunSimulation(cfg Config, log *zap.Logger) ([]string, Summary, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, Summary{}, errors.Wrap(err, "invalid simulation config")
	}

	rng := cfg.Rand
	if rng == nil {
		rng = NewStreamRand(cfg.Protocol)
	}
	clock := NewVirtualClock()
	channel := NewChannel(FaultProfile{
		LossProbability:       cfg.LossProbability,
		CorruptionProbability: cfg.CorruptionProbability,
		DelayProbability:      cfg.DelayProbability,
		MaxDelayTicks:         cfg.MaxDelayTicks,
	}, clock, rng, log)

	sender, receiver := buildPair(cfg, channel, clock, log)

	log.Info("simulation starting",
		zap.String("protocol", cfg.Protocol),
		zap.Int("totalPackets", cfg.TotalPackets),
		zap.Int64("budgetTicks", int64(cfg.BudgetTicks)))

	sender.BeginTransmission()
	start := clock.Now()

	for sender.Base() < cfg.TotalPackets && clock.Now()-start < cfg.BudgetTicks {
		now := clock.Now()

		inbound := channel.DeliverReady(now, ToReceiver)
		outbound := channel.DeliverReady(now, ToSender)

		for _, pkt := range inbound {
			receiver.Receive(pkt)
		}
		for _, ack := range outbound {
			sender.ProcessAck(ack)
		}
		sender.CheckTimeout()

		clock.Advance(1)
	}

	delivered := receiver.Delivered()
	summary := Summary{
		Protocol:       cfg.Protocol,
		TotalPackets:   cfg.TotalPackets,
		DeliveredCount: len(delivered),
		ElapsedTicks:   clock.Now() - start,
		SuccessRate:    float64(len(delivered)) / float64(cfg.TotalPackets),
		TimedOut:       sender.Base() < cfg.TotalPackets,
	}

	log.Info("simulation finished",
		zap.String("protocol", summary.Protocol),
		zap.Int("delivered", summary.DeliveredCount),
		zap.Int64("elapsedTicks", int64(summary.ElapsedTicks)),
		zap.Float64("successRate", summary.SuccessRate),
		zap.Bool("timedOut", summary.TimedOut))

	return delivered, summary, nil
}
