package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuibill/internal/clock"
	"github.com/verte-zerg/tuibill/internal/config"
	"github.com/verte-zerg/tuibill/internal/earnings"
	"github.com/verte-zerg/tuibill/internal/model"
	"github.com/verte-zerg/tuibill/internal/recorder"
	"github.com/verte-zerg/tuibill/internal/tui"
)

var (
	sessionRate    float64
	sessionCatchUp float64
	sessionPlain   bool
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session [RATE]",
		Short: "Record a work session",
		Long: "Record a work session at an hourly rate. The rate comes from RATE, --rate, " +
			envHourlyRate + " or session.rate in the config file, in that order.",
		Args: cobra.MaximumNArgs(1),
		RunE: runSessionCmd,
	}
	cmd.Flags().Float64Var(&sessionRate, "rate", 0, "hourly rate")
	cmd.Flags().Float64Var(&sessionCatchUp, "catch-up", 0, "minutes already worked before starting")
	cmd.Flags().BoolVar(&sessionPlain, "plain", false, "line-mode input instead of the full-screen UI")
	return cmd
}

func runSessionCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	rate, err := resolveRate(cmd, args, fileCfg)
	if err != nil {
		return err
	}
	if err := earnings.ValidateCatchUp(sessionCatchUp); err != nil {
		return fmt.Errorf("--catch-up: %w", err)
	}

	st, err := openStore(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := commandContext(cmd)
	// Load first so an unreadable store fails before any time is recorded.
	log, err := st.Load(ctx)
	if err != nil {
		return err
	}

	rec, err := recorder.New(clock.System{}, rate, sessionCatchUp)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	session, err := recordSession(runCtx, cmd, rec, useLineMode(cmd))
	if err != nil {
		return fmt.Errorf("session not recorded: %w", err)
	}

	log.AppendSession(session)
	if err := st.Save(ctx, log); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s at %s/h: earned %s, %d tags.\n",
		earnings.FormatClock(session.Duration()),
		earnings.FormatMoney(session.HourlyRate),
		earnings.FormatMoney(session.Earned()),
		len(session.Tags),
	)
	return err
}

func recordSession(ctx context.Context, cmd *cobra.Command, rec *recorder.Recorder, lineMode bool) (model.Session, error) {
	if !lineMode {
		return tui.Run(ctx, rec)
	}
	logErrf("Recording at %s/h. Type a note and press enter to tag it; %s ends the session.\n",
		earnings.FormatMoney(rec.Rate()), recorder.StopCommand)
	events := recorder.LineEvents(ctx, cmd.InOrStdin())
	session, err := rec.Run(ctx, events, recorder.PlainRenderer{W: cmd.ErrOrStderr()})
	logErrln()
	return session, err
}

func useLineMode(cmd *cobra.Command) bool {
	if sessionPlain {
		return true
	}
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return true
	}
	return !term.IsTerminal(int(os.Stdout.Fd()))
}

// resolveRate picks the hourly rate from the positional argument, --rate,
// HOURLY_RATE or the config file and validates it.
func resolveRate(cmd *cobra.Command, args []string, fileCfg config.FileConfig) (float64, error) {
	if len(args) == 1 {
		parsed, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid rate %q: %w", args[0], err)
		}
		if err := earnings.ValidateRate(parsed); err != nil {
			return 0, err
		}
		return parsed, nil
	}
	applyFloatConfig(cmd, "rate", &sessionRate, fileCfg.Session.Rate)
	if err := applyFloatEnv(cmd, "rate", &sessionRate, envHourlyRate); err != nil {
		return 0, err
	}
	if err := earnings.ValidateRate(sessionRate); err != nil {
		return 0, fmt.Errorf("%w (pass RATE, --rate, %s or session.rate)", err, envHourlyRate)
	}
	return sessionRate, nil
}
