// Package simconfig parses YAML scenario files for the ARQ simulator.
package simconfig

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	protocol "github.com/sunnyallana/reliable-data-transfer/pkg"
)

// Scenario is the on-disk description of one simulation run. Timing fields
// are logical ticks.
type Scenario struct {
	Protocol              string  `yaml:"protocol"`
	TotalPackets          int     `yaml:"totalPackets"`
	WindowSize            int     `yaml:"windowSize"`
	PayloadSize           int     `yaml:"payloadSize"`
	LossProbability       float64 `yaml:"lossProbability"`
	CorruptionProbability float64 `yaml:"corruptionProbability"`
	DelayProbability      float64 `yaml:"delayProbability"`
	MaxDelayTicks         int     `yaml:"maxDelayTicks"`
	TimeoutTicks          int64   `yaml:"timeoutTicks"`
	BudgetTicks           int64   `yaml:"budgetTicks"`
	Seed                  uint64  `yaml:"seed"`
}

// Default mirrors the classic classroom run: small window, short payloads,
// 2-second timeout and 30-second budget at ten ticks per second.
func Default() Scenario {
	return Scenario{
		Protocol:      protocol.StopAndWait,
		TotalPackets:  10,
		WindowSize:    4,
		PayloadSize:   5,
		MaxDelayTicks: 3,
		TimeoutTicks:  20,
		BudgetTicks:   300,
	}
}

// Parse reads a scenario file, filling unset fields from Default.
func Parse(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scenario file %s", path)
	}
	scenario := Default()
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, errors.Wrapf(err, "parsing scenario file %s", path)
	}
	return &scenario, nil
}

// Config converts the scenario into a validated simulation config.
func (s *Scenario) Config() (protocol.Config, error) {
	cfg := protocol.Config{
		Protocol:              s.Protocol,
		TotalPackets:          s.TotalPackets,
		WindowSize:            s.WindowSize,
		PayloadSize:           s.PayloadSize,
		LossProbability:       s.LossProbability,
		CorruptionProbability: s.CorruptionProbability,
		DelayProbability:      s.DelayProbability,
		MaxDelayTicks:         s.MaxDelayTicks,
		TimeoutTicks:          protocol.Tick(s.TimeoutTicks),
		BudgetTicks:           protocol.Tick(s.BudgetTicks),
	}
	if err := cfg.Validate(); err != nil {
		return protocol.Config{}, errors.Wrap(err, "invalid scenario")
	}
	return cfg, nil
}
