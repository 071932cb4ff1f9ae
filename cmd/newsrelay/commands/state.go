package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/newsrelay/internal/logger"
	"github.com/jmylchreest/newsrelay/internal/output"
	"github.com/jmylchreest/newsrelay/pkg/store"
)

// stateView is what `state show` prints.
type stateView struct {
	Feed      string `json:"feed" yaml:"feed"`
	Backend   string `json:"backend" yaml:"backend"`
	Watermark string `json:"watermark" yaml:"watermark"`
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or change the watermark",
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current watermark",
	Args:  cobra.NoArgs,
	RunE:  runStateShow,
}

var stateSetCmd = &cobra.Command{
	Use:   "set <title>",
	Short: "Set the watermark to an article title",
	Long: `Set the watermark by hand. The next run sends every listing entry
above the entry with this exact title. A title that is not on the listing
makes the next run send the whole listing.`,
	Args: cobra.ExactArgs(1),
	RunE: runStateSet,
}

var stateInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Seed the watermark from the current listing",
	Long: `Fetch the listing and store its newest title as the watermark without
sending anything, so the first real run only delivers later news.`,
	Args: cobra.NoArgs,
	RunE: runStateInit,
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.AddCommand(stateShowCmd, stateSetCmd, stateInitCmd)

	stateShowCmd.Flags().StringP("format", "f", "yaml", "output format (json, jsonl, yaml)")
	stateInitCmd.Flags().Bool("force", false, "overwrite an existing watermark")
}

func runStateShow(cmd *cobra.Command, _ []string) error {
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

	title, err := st.Read(ctx)
	if errors.Is(err, store.ErrMissingWatermark) {
		return fmt.Errorf("%w (run `newsrelay state init` to seed it)", err)
	}
	if err != nil {
		return err
	}

	w, err := output.NewWriter(cmd.OutOrStdout(), format)
	if err != nil {
		return err
	}
	if err := w.Write(stateView{Feed: cfg.Feed.Name, Backend: cfg.Store.Backend, Watermark: title}); err != nil {
		return err
	}
	return w.Close()
}

func runStateSet(cmd *cobra.Command, args []string) error {
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

	if err := st.Write(ctx, args[0]); err != nil {
		return err
	}
	logger.Info("watermark set", "feed", cfg.Feed.Name, "title", args[0])
	return nil
}

func runStateInit(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")

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

	existing, err := st.Read(ctx)
	switch {
	case err == nil && !force:
		return fmt.Errorf("watermark already set to %q (use --force to replace it)", existing)
	case err != nil && !errors.Is(err, store.ErrMissingWatermark):
		return err
	}

	// no messages are sent, so no bot token is needed
	r, err := newRelay(cfg, st, true)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	title, err := r.Bootstrap(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), title)
	return nil
}
