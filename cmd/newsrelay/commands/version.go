package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/newsrelay/internal/output"
	"github.com/jmylchreest/newsrelay/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		if formatFlag == "" {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
			return nil
		}
		format, err := output.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		w, err := output.NewWriter(cmd.OutOrStdout(), format)
		if err != nil {
			return err
		}
		if err := w.Write(version.Get()); err != nil {
			return err
		}
		return w.Close()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringP("format", "f", "", "structured output format (json, yaml)")
}
