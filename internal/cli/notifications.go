package cli

import (
	"fmt"

	"taskboard/internal/render"

	"github.com/spf13/cobra"
)

func newNotificationsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notes"},
		Short:   "Notification commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			list := a.Notifications()
			return writeOut(cmd, env, list, func() string { return render.NotificationList(list) })
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("notification", args[0])
			if err != nil {
				return err
			}
			a, err := env.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.MarkNotificationRead(cmd.Context(), id); err != nil {
				return err
			}
			unread := a.UnreadCount()
			result := map[string]any{"id": id, "unread": unread}
			return writeOut(cmd, env, result, func() string {
				return fmt.Sprintf("Notification %d read, %d unread", id, unread)
			})
		},
	})
	return cmd
}
