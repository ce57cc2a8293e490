package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	protocol "github.com/sunnyallana/reliable-data-transfer/pkg"
	"github.com/sunnyallana/reliable-data-transfer/simconfig"
)

func main() {
	defaults := simconfig.Default()

	configPath := flag.String("config", "", "path to a YAML scenario file; flags passed explicitly still override its values")
	protocolName := flag.String("protocol", defaults.Protocol, "stop-and-wait, go-back-n or selective-repeat")
	total := flag.Int("total", defaults.TotalPackets, "number of packets to deliver")
	window := flag.Int("window", defaults.WindowSize, "window size for the windowed protocols")
	payload := flag.Int("payload", defaults.PayloadSize, "payload size in bytes")
	loss := flag.Float64("loss", 0, "loss probability in [0,1]")
	corruption := flag.Float64("corruption", 0, "corruption probability in [0,1]")
	delay := flag.Float64("delay", 0, "delay probability in [0,1]")
	maxDelay := flag.Int("max-delay", defaults.MaxDelayTicks, "maximum hold time in ticks for a delayed packet")
	timeout := flag.Int64("timeout", defaults.TimeoutTicks, "retransmission timeout in ticks")
	budget := flag.Int64("budget", defaults.BudgetTicks, "tick budget before the run is abandoned")
	seed := flag.Uint64("seed", 0, "master seed for the fault-injection streams (0 leaves the default)")
	verbose := flag.Bool("v", false, "log every channel and protocol event")
	flag.Parse()

	log := zap.NewNop()
	if *verbose {
		devLog, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, "could not build logger:", err)
			os.Exit(1)
		}
		log = devLog
		defer log.Sync()
	}

	scenario := simconfig.Scenario{
		Protocol:              *protocolName,
		TotalPackets:          *total,
		WindowSize:            *window,
		PayloadSize:           *payload,
		LossProbability:       *loss,
		CorruptionProbability: *corruption,
		DelayProbability:      *delay,
		MaxDelayTicks:         *maxDelay,
		TimeoutTicks:          *timeout,
		BudgetTicks:           *budget,
		Seed:                  *seed,
	}
	if *configPath != "" {
		parsed, err := simconfig.Parse(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		merged := *parsed
		// Flags the user actually typed take precedence over the file.
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "protocol":
				merged.Protocol = *protocolName
			case "total":
				merged.TotalPackets = *total
			case "window":
				merged.WindowSize = *window
			case "payload":
				merged.PayloadSize = *payload
			case "loss":
				merged.LossProbability = *loss
			case "corruption":
				merged.CorruptionProbability = *corruption
			case "delay":
				merged.DelayProbability = *delay
			case "max-delay":
				merged.MaxDelayTicks = *maxDelay
			case "timeout":
				merged.TimeoutTicks = *timeout
			case "budget":
				merged.BudgetTicks = *budget
			case "seed":
				merged.Seed = *seed
			}
		})
		scenario = merged
	}

	if scenario.Seed != 0 {
		protocol.SetMasterSeed(scenario.Seed)
	}

	cfg, err := scenario.Config()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	delivered, summary, err := protocol.RunSimulation(cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	printSummary(summary)
	for i, data := range delivered {
		fmt.Printf("  %3d  %s\n", i, data)
	}
}

func printSummary(s protocol.Summary) {
	fmt.Printf("protocol:     %s\n", s.Protocol)
	fmt.Printf("delivered:    %d/%d\n", s.DeliveredCount, s.TotalPackets)
	fmt.Printf("elapsed:      %d ticks\n", s.ElapsedTicks)
	fmt.Printf("success rate: %.1f%%\n", s.SuccessRate*100)
	fmt.Printf("timed out:    %v\n", s.TimedOut)
}
