package scan

import (
	"context"
	"errors"
	"time"

	"github.com/inscription-c/ccoin/coloring"
	"github.com/inscription-c/ccoin/config"
	"github.com/inscription-c/ccoin/internal/engine"
	"github.com/inscription-c/ccoin/internal/signal"
	"github.com/inscription-c/ccoin/log"
	"github.com/lightningnetwork/lnd/ticker"
	"github.com/spf13/cobra"
)

type scanOptions struct {
	follow   bool
	interval time.Duration
	metrics  string
	pprof    bool
}

// NewCmd returns the scan command: bring the color data of the given
// colors up to the best block, and keep following the chain on request.
func NewCmd(cfg *config.Config) *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan [color_desc...]",
		Short: "scan the chain for the values of colors",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := engine.New(cfg)
			if err != nil {
				return err
			}
			defer e.Close()
			set, err := e.ColorSet(args)
			if err != nil {
				return err
			}
			return run(signal.Context(), e, set, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "keep scanning new blocks until interrupted")
	cmd.Flags().DurationVarP(&opts.interval, "interval", "i", 30*time.Second, "how often the best block is checked when following")
	cmd.Flags().StringVarP(&opts.metrics, "metrics", "", "", "serve prometheus metrics on this address when following")
	cmd.Flags().BoolVarP(&opts.pprof, "pprof", "", false, "serve pprof next to the metrics")
	return cmd
}

// run scans set up to the best block, then once per tick when following.
func run(ctx context.Context, e *engine.Engine, set *coloring.ColorSet, opts *scanOptions) error {
	if err := scanToTip(ctx, e, set); err != nil {
		return err
	}
	if !opts.follow {
		return nil
	}

	if opts.metrics != "" {
		srv := newMetricsServer(opts.metrics, opts.pprof)
		srv.Run()
		defer srv.Shutdown()
	}

	t := ticker.New(opts.interval)
	t.Resume()
	defer t.Stop()
	for {
		select {
		case <-t.Ticks():
			if err := scanToTip(ctx, e, set); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		case <-ctx.Done():
			log.Log.Info("scan stopped")
			return nil
		}
	}
}

func scanToTip(ctx context.Context, e *engine.Engine, set *coloring.ColorSet) error {
	best, err := e.Chain.GetBestBlockhash()
	if err != nil {
		return err
	}
	start := time.Now()
	if err := e.Manager.EnsureScannedUpto(ctx, set, best); err != nil {
		return err
	}
	log.Log.Infof("colors %s scanned up to %s in %s", set.ColorHash(), best, time.Since(start).Round(time.Millisecond))
	return nil
}
