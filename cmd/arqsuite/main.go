// arqsuite runs the same scenario through all three protocols and prints a
// side-by-side comparison.
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

	total := flag.Int("total", 5, "number of packets to deliver")
	window := flag.Int("window", defaults.WindowSize, "window size for the windowed protocols")
	payload := flag.Int("payload", defaults.PayloadSize, "payload size in bytes")
	loss := flag.Float64("loss", 0.2, "loss probability in [0,1]")
	corruption := flag.Float64("corruption", 0.2, "corruption probability in [0,1]")
	delay := flag.Float64("delay", 0.2, "delay probability in [0,1]")
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

	if *seed != 0 {
		protocol.SetMasterSeed(*seed)
	}

	fmt.Printf("%-17s %-10s %-8s %-9s %s\n", "protocol", "delivered", "ticks", "success", "timed out")
	for _, name := range []string{protocol.StopAndWait, protocol.GoBackN, protocol.SelectiveRepeat} {
		cfg := protocol.Config{
			Protocol:              name,
			TotalPackets:          *total,
			WindowSize:            *window,
			PayloadSize:           *payload,
			LossProbability:       *loss,
			CorruptionProbability: *corruption,
			DelayProbability:      *delay,
			MaxDelayTicks:         defaults.MaxDelayTicks,
			TimeoutTicks:          protocol.Tick(defaults.TimeoutTicks),
			BudgetTicks:           protocol.Tick(defaults.BudgetTicks),
		}
		_, summary, err := protocol.RunSimulation(cfg, log)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("%-17s %3d/%-6d %-8d %-9s %v\n",
			summary.Protocol,
			summary.DeliveredCount, summary.TotalPackets,
			summary.ElapsedTicks,
			fmt.Sprintf("%.1f%%", summary.SuccessRate*100),
			summary.TimedOut)
	}
}
