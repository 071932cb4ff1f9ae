package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/newsrelay/internal/logger"
	"github.com/jmylchreest/newsrelay/internal/output"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sync the news listing once",
	Long: `Fetch the listing, send every article newer than the watermark to the
chat (oldest first) and advance the watermark.

If any step fails nothing more is sent and the watermark is left unchanged,
so the next run retries the same articles.

With --dry-run the messages are printed instead of sent and the watermark
is not touched; no bot token is needed.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("dry-run", false, "print messages instead of sending them")
	runCmd.Flags().StringP("format", "f", "json", "dry-run output format (json, jsonl, yaml)")
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runSync(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	formatFlag, _ := cmd.Flags().GetString("format")

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

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

	r, err := newRelay(cfg, st, dryRun)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	res, err := r.Run(ctx)
	if err != nil {
		logger.Error("run aborted", "run_id", res.RunID, "sent", res.Sent, "error", err)
		return err
	}

	if dryRun {
		w, err := output.NewWriter(cmd.OutOrStdout(), format)
		if err != nil {
			return err
		}
		return output.WriteAll(w, res.Messages)
	}

	logger.Info("run complete",
		"run_id", res.RunID,
		"sent", res.Sent,
		"committed", res.Committed,
		"duration", res.Duration)
	return nil
}
