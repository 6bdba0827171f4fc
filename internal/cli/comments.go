package cli

import (
	"fmt"

	"taskboard/internal/comments"
	"taskboard/internal/render"

	"github.com/spf13/cobra"
)

func newCommentsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Comment commands",
	}
	cmd.AddCommand(newCommentsListCmd(env))
	cmd.AddCommand(newCommentsPostCmd(env, comments.ModeNone))
	cmd.AddCommand(newCommentsPostCmd(env, comments.ModeReply))
	cmd.AddCommand(newCommentsPostCmd(env, comments.ModeEdit))
	cmd.AddCommand(newCommentsDeleteCmd(env))
	return cmd
}

func newCommentsListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list <task-id>",
		Short: "List the comments of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			a, err := env.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			rows, err := a.OpenComments(cmd.Context(), taskID)
			if err != nil {
				return err
			}
			return writeOut(cmd, env, rows, func() string { return render.CommentList(rows) })
		},
	}
}

// newCommentsPostCmd builds add, reply and edit. Reply and edit take the
// target comment as a second argument.
func newCommentsPostCmd(env *Env, kind comments.ModeKind) *cobra.Command {
	var text string

	use, short, args := "add <task-id>", "Add a comment to a task", cobra.ExactArgs(1)
	switch kind {
	case comments.ModeReply:
		use, short, args = "reply <task-id> <comment-id>", "Reply to a comment", cobra.ExactArgs(2)
	case comments.ModeEdit:
		use, short, args = "edit <task-id> <comment-id>", "Replace the text of a comment", cobra.ExactArgs(2)
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			mode := comments.Mode{Kind: kind}
			if kind != comments.ModeNone {
				if mode.CommentID, err = parseID("comment", args[1]); err != nil {
					return err
				}
			}

			a, err := env.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := a.PostComment(cmd.Context(), taskID, mode, text); err != nil {
				return err
			}
			rows, err := a.OpenComments(cmd.Context(), taskID)
			if err != nil {
				return err
			}
			return writeOut(cmd, env, rows, func() string { return render.CommentList(rows) })
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "Comment text")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newCommentsDeleteCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id> <comment-id>",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			commentID, err := parseID("comment", args[1])
			if err != nil {
				return err
			}
			a, err := env.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			a.Thread().Open(taskID)
			if err := a.DeleteComment(cmd.Context(), commentID); err != nil {
				return err
			}
			result := map[string]any{"id": commentID, "deleted": true}
			return writeOut(cmd, env, result, func() string { return fmt.Sprintf("Comment %d deleted", commentID) })
		},
	}
}
