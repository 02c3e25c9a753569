package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"heating_controller/internal/config"
	"heating_controller/internal/logger"
	"heating_controller/internal/models"
	"heating_controller/internal/repository"
	"heating_controller/internal/repository/db"
	"heating_controller/internal/service"
	"heating_controller/internal/thermostat"

	"github.com/spf13/cobra"
)

var (
	configDir string
	dbPath    string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "heatctl",
		Short:        "Inspect and steer the heating controller",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "directory holding config.yml")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides db.path)")

	rootCmd.AddCommand(targetCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(holdCmd())
	return rootCmd
}

// env is what every subcommand works with.
type env struct {
	db       *sql.DB
	services *service.Service
}

func (e *env) Close() error { return e.db.Close() }

func openEnv() (*env, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}
	path := cfg.DB.Path
	if dbPath != "" {
		path = dbPath
	}
	sqlDB, err := db.InitDB(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	services := service.NewService(repository.NewRepository(sqlDB), service.Deps{
		Log:      logger.New(logger.Options{Level: logger.ErrorLevel, Format: cfg.Log.Format, Output: os.Stderr}),
		Defaults: cfg.Settings(),
		Auth:     service.AuthConfig{SigningKey: cfg.Auth.SigningKey, TokenTTL: cfg.Auth.TokenTTL},
	})
	return &env{db: sqlDB, services: services}, nil
}

func targetCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "target",
		Short: "Print the target temperature now (or --at an RFC3339 instant)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = t
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			view, err := e.services.Target.Current(cmd.Context(), now)
			if err != nil {
				return err
			}
			printTarget(cmd, view)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "instant to evaluate (RFC3339)")
	return cmd
}

func printTarget(cmd *cobra.Command, v models.TargetView) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, v.Summary)
	switch {
	case v.Holding():
		fmt.Fprintf(out, "source: hold %s\n", v.HoldID)
	case v.FromSchedule:
		fmt.Fprintf(out, "source: rule %q (%s)\n", v.RuleName, v.RuleID)
	default:
		fmt.Fprintln(out, "source: away")
	}
	if v.NextChange != nil {
		fmt.Fprintf(out, "next change: %s\n", thermostat.FormatRelative(*v.NextChange, v.At, v.Timezone))
	}
}

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			rules, err := e.services.Rules.ListRules(cmd.Context())
			if err != nil {
				return err
			}
			if len(rules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No rules.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tACTIVE\tWHEN\tSCHEDULES")
			for _, r := range rules {
				fmt.Fprintf(tw, "%s\t%s\t%v\t%s\t%s\n", shortID(r.ID), r.Name, r.Active, ruleWhen(r), ruleSchedules(r))
			}
			return tw.Flush()
		},
	}
}

func ruleWhen(r models.Rule) string {
	if !r.Repeat {
		dates := make([]string, 0, len(r.NextDates))
		for _, d := range r.NextDates {
			dates = append(dates, d.String())
		}
		return "on " + strings.Join(dates, ",")
	}
	days := make([]string, 0, models.DaysPerWeek)
	for _, d := range r.Days.Days() {
		days = append(days, d.ShortName())
	}
	return strings.Join(days, ",")
}

func ruleSchedules(r models.Rule) string {
	parts := make([]string, 0, len(r.Schedules))
	for _, s := range r.Schedules {
		parts = append(parts, fmt.Sprintf("%s-%s %s", s.From, s.To, thermostat.FormatTemperature(s.High)))
	}
	return strings.Join(parts, " ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func holdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hold",
		Short: "Manage the manual hold",
	}
	cmd.AddCommand(holdSetCmd())
	cmd.AddCommand(holdClearCmd())
	return cmd
}

func holdSetCmd() *cobra.Command {
	var (
		value float64
		dur   time.Duration
		until string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Pin the target to --value for --for or --until",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := service.HoldParams{Value: value, Duration: dur}
			if until != "" {
				t, err := time.Parse(time.RFC3339, until)
				if err != nil {
					return fmt.Errorf("--until: %w", err)
				}
				p.Until = t
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			h, err := e.services.Hold.SetHold(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Hold %s set to %s until %s\n",
				shortID(h.ID), thermostat.FormatTemperature(h.Value), h.UntilTime.Local().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().Float64Var(&value, "value", 0, "setpoint in °C")
	cmd.Flags().DurationVar(&dur, "for", 0, "hold duration, e.g. 2h")
	cmd.Flags().StringVar(&until, "until", "", "hold end (RFC3339)")
	_ = cmd.MarkFlagRequired("value")
	cmd.MarkFlagsMutuallyExclusive("for", "until")
	return cmd
}

func holdClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the hold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.services.Hold.ClearHold(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Hold cleared.")
			return nil
		},
	}
}

