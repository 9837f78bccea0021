package cli

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/localnerve/resonance/internal/realtime"
)

// NewWatchCommand follows constellation updates on the redis channel
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "watch",
		Short:         "Stream live constellation updates",
		Long:          "Subscribe to REDIS_CHANNEL on REDIS_ADDR and print every update until interrupted.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			if cfg.RedisAddr == "" {
				return NewExitError(ExitCommandError, "REDIS_ADDR is not set")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
			defer rdb.Close()

			log := rootOpts.logger()
			defer log.Sync()

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			err = realtime.Subscribe(ctx, rdb, cfg.RedisChannel, log, func(u realtime.ConstellationUpdate) {
				if rootOpts.Format == FormatJSON {
					_ = enc.Encode(u)
					return
				}
				fmt.Fprintf(out, "%s %-10s count=%d intensity=%.2f\n", u.Day, u.AxisSlug, u.CompletionCount, u.Intensity)
			})
			if err != nil && ctx.Err() == nil {
				return WrapExitError(ExitFailure, "watch failed", err)
			}
			return nil
		},
	}
	return cmd
}
