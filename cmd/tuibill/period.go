package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuibill/internal/browse"
	"github.com/verte-zerg/tuibill/internal/stats"
)

func newPeriodCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "new-period",
		Aliases: []string{"period"},
		Short:   "Close the current billing period and start a new one",
		Args:    cobra.NoArgs,
		RunE:    runPeriodCmd,
	}
}

func runPeriodCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := commandContext(cmd)
	log, err := st.Load(ctx)
	if err != nil {
		return err
	}
	log.StartNewPeriod()
	if err := st.Save(ctx, log); err != nil {
		return fmt.Errorf("failed to save period: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Started period %d.\n", len(log.Periods))
	return err
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print totals per billing period",
		Args:  cobra.NoArgs,
		RunE:  runSummaryCmd,
	}
}

func runSummaryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	log, err := st.Load(commandContext(cmd))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	return stats.RenderSummary(out, log, stats.TerminalWidth(out))
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse billing periods",
		Args:  cobra.NoArgs,
		RunE:  runBrowseCmd,
	}
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("browse needs a terminal; use summary instead")
	}
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	log, err := st.Load(commandContext(cmd))
	if err != nil {
		return err
	}
	return browse.Run(log)
}
