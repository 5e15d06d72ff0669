package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	flagNodes       = "nodes"
	flagFanout      = "fanout"
	flagPrimaries   = "primaries"
	flagTime        = "time"
	flagLostTime    = "lost-time-millis"
	flagResultsFile = "results-file"
	flagMetricsAddr = "metrics-addr"
)

// newRootCmd builds the gossipsim command: a standalone simulation driver,
// not a long-running daemon, so it takes no persistent subcommands.
func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "gossipsim",
		Short: "Simulate a convergent gossip set and report delivery latency",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			cfg := config{
				nodes:       v.GetInt(flagNodes),
				fanout:      v.GetInt(flagFanout),
				primaries:   v.GetInt(flagPrimaries),
				runTime:     v.GetDuration(flagTime),
				lossTimeout: time.Duration(v.GetInt64(flagLostTime)) * time.Millisecond,
				resultsFile: v.GetString(flagResultsFile),
				metricsAddr: v.GetString(flagMetricsAddr),
			}
			if cfg.nodes < 2 {
				return fmt.Errorf("gossipsim: --%s must be at least 2", flagNodes)
			}
			if cfg.primaries >= cfg.nodes {
				return fmt.Errorf("gossipsim: --%s must be less than --%s", flagPrimaries, flagNodes)
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("gossipsim: building logger: %w", err)
			}
			defer logger.Sync()

			result, err := runSimulation(cmd.Context(), logger, cfg)
			if err != nil {
				return err
			}
			logger.Info("gossipsim: done",
				zap.Float64("overall_mean_micros", result.OverallMean),
				zap.Float64("overall_p99_micros", result.OverallP99),
				zap.Int("lost_elements", result.LostElements),
			)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Int(flagNodes, 10, "number of nodes in the network")
	flags.Int(flagFanout, 3, "number of peers each node forwards a message to")
	flags.Int(flagPrimaries, 0, "number of primary nodes; 0 selects uniform gossip over preferential gossip")
	flags.Duration(flagTime, 30*time.Second, "how long to run the simulation")
	flags.Int64(flagLostTime, 5000, "milliseconds an element may go unseen at its target before it's counted lost")
	flags.String(flagResultsFile, "", "file to append one JSON result line to; empty disables")
	flags.String(flagMetricsAddr, "", "address to serve Prometheus metrics on, e.g. :9090; empty disables")

	return cmd
}
