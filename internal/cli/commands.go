package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/sched/internal/auth"
	"github.com/sandeepkv93/sched/internal/progress"
	"github.com/sandeepkv93/sched/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newOnboardingCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "onboarding",
		Short: "Manage the planner questionnaire",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Show the questionnaire again on the next visit to the planner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			a, err := openApp(ctx, opts.configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.gate.Reset(ctx); err != nil {
				return err
			}
			a.log.Info("onboarding reset")
			fmt.Fprintln(cmd.OutOrStdout(), "onboarding reset: the questionnaire will show on the AI Planner tab")
			return nil
		},
	})
	return cmd
}

func newStreakCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Print the current and longest streak of finished days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			a, err := openApp(ctx, opts.configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			userID, err := a.currentUserID(ctx)
			if err != nil {
				return err
			}
			var src progress.StreakSource = storage.UserStreaks{Repo: a.repo, UserID: userID}
			s, err := src.Streaks(ctx)
			if err != nil {
				return fmt.Errorf("load streaks: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "current: %d %s\n", s.Current, progress.DayLabel(s.Current))
			fmt.Fprintf(out, "longest: %d %s\n", s.Longest, progress.DayLabel(s.Longest))
			return nil
		},
	}
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Write a signed session for a user id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID = strings.TrimSpace(userID)
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			a, err := openApp(commandContext(cmd), opts.configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := auth.IssueSession(a.cfg.SessionFile, a.cfg.JWTSecret, userID, ttl); err != nil {
				return err
			}
			a.log.Info("session issued", zap.String("user_id", userID), zap.Duration("ttl", ttl))
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", userID)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id to sign in as")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "session lifetime")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(commandContext(cmd), opts.configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := auth.ClearSession(a.cfg.SessionFile); err != nil {
				return err
			}
			a.log.Info("session cleared")
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}
