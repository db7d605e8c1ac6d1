// Package cli wires configuration, storage and the planner into the cobra
// command tree. The root command runs the terminal UI.
package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/sched/internal/scheduler"
	"github.com/sandeepkv93/sched/internal/update"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// runUI is swapped in tests so the root command can run without a terminal.
var runUI = func(m tea.Model, in io.Reader, out io.Writer) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithInput(in), tea.WithOutput(out)).Run()
	return err
}

type rootOptions struct {
	configPath string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "sched",
		Short: "Daily task tracker with an AI schedule planner",
		Long: `sched tracks today's tasks in the terminal and shows your progress and
streak. The AI Planner tab turns a short questionnaire into a generated
daily schedule you can extend and give feedback on.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoot(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config file (default ./sched.yaml)")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		newVersionCmd(),
		newOnboardingCmd(opts),
		newStreakCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sched %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
		},
	}
}

func runRoot(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, opts.configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	deps, err := a.plannerDeps()
	if err != nil {
		return err
	}

	var alarms *scheduler.Engine
	if a.cfg.Alarms {
		alarms = scheduler.NewEngine(a.cfg.AlarmBuffer)
		alarms.Start()
		defer alarms.Stop()
	}

	m := update.NewModel(update.Options{
		Gate:    a.gate,
		Planner: deps,
		Tasks:   a.repo,
		Alarms:  alarms,
		Logger:  a.log,
		Timeout: a.cfg.RequestTimeout,
	})
	if err := runUI(m, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		a.log.Error("ui exited", zap.Error(err))
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
