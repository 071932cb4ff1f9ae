package commands

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/newsrelay/internal/logger"
	"github.com/jmylchreest/newsrelay/pkg/relay"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Sync on a schedule until interrupted",
	Long: `Run the sync repeatedly on a cron schedule. A run that is still going
when the next tick fires causes that tick to be skipped, so runs never
overlap. A failed run is logged and retried on the next tick.

The schedule accepts standard five-field cron expressions and descriptors
such as "@hourly" or "@every 30m".`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("schedule", "", `cron schedule (default "@every 30m")`)
	watchCmd.Flags().Bool("immediate", true, "run once at startup before the first tick")

	_ = viper.BindPFlag("schedule", watchCmd.Flags().Lookup("schedule"))
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	immediate, _ := cmd.Flags().GetBool("immediate")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	r, err := newRelay(cfg, st, false)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	clog := cronLogger{log: logger.With("component", "cron")}
	c := cron.New(
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)

	job := func() { syncOnce(ctx, r) }
	if _, err := c.AddFunc(cfg.Schedule, job); err != nil {
		return err
	}

	logger.Info("watching", "feed", cfg.Feed.Name, "schedule", cfg.Schedule)
	if immediate {
		job()
	}

	c.Start()
	<-ctx.Done()
	logger.Info("stopping, waiting for the current run")
	<-c.Stop().Done()
	return nil
}

// syncOnce runs one sync and logs the outcome; errors do not stop the loop.
func syncOnce(ctx context.Context, r *relay.Relay) {
	if ctx.Err() != nil {
		return
	}
	res, err := r.Run(ctx)
	if err != nil {
		logger.Error("run aborted", "run_id", res.RunID, "sent", res.Sent, "error", err)
		return
	}
	logger.Info("run complete", "run_id", res.RunID, "sent", res.Sent, "committed", res.Committed)
}
