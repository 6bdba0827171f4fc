package cli

import (
	"fmt"
	"strings"
	"time"

	"taskboard/internal/render"
	"taskboard/internal/service"
	"taskboard/internal/summary"

	"github.com/spf13/cobra"
)

func newSummaryCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show task counters and unread notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			s, unread := a.Summary(), a.UnreadCount()
			out := struct {
				summary.Summary
				Unread int `json:"unread"`
			}{s, unread}
			return writeOut(cmd, env, out, func() string { return render.SummaryLine(s, unread) })
		},
	}
}

func newCalendarCmd(env *Env) *cobra.Command {
	var month string
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the month grid with recurring tasks expanded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filters.parse()
			if err != nil {
				return err
			}
			a, err := env.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if strings.TrimSpace(month) != "" {
				m, err := time.Parse("2006-01", strings.TrimSpace(month))
				if err != nil {
					return service.NewValidationError("month", fmt.Sprintf("invalid month %q, expected YYYY-MM", month))
				}
				a.SetMonth(m.Year(), m.Month())
			}
			a.SetFilter(f)
			view := a.Calendar()
			return writeOut(cmd, env, view, func() string { return render.Calendar(view) })
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month to show, YYYY-MM (default: current)")
	filters.register(cmd.Flags())
	return cmd
}
