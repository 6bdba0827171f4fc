package cli

import (
	"fmt"
	"strings"

	"taskboard/internal/client"
	"taskboard/internal/models/user"
	"taskboard/internal/session"

	"github.com/spf13/cobra"
)

func userLine(u *user.User) string {
	return fmt.Sprintf("%s (%s) #%d", u.Username, u.Role, u.ID)
}

func newLoginCmd(env *Env) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := env.connect()
			if err != nil {
				return err
			}
			me, err := c.Login(cmd.Context(), strings.TrimSpace(username), password)
			if err != nil {
				return fmt.Errorf("login failed: %s", client.Message(err, "unexpected error"))
			}
			if err := env.saveSession(c); err != nil {
				return err
			}
			return writeOut(cmd, env, me, func() string { return "Logged in as " + userLine(me) })
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", envOr("TASKBOARD_PASSWORD", ""), "Password (or TASKBOARD_PASSWORD)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newRegisterCmd(env *Env) *cobra.Command {
	var req client.RegisterRequest
	var role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Role = user.Role(role)
			if !req.Role.Valid() {
				return fmt.Errorf("unknown role %q (Staff|Manager|Admin)", role)
			}
			c, err := env.connect()
			if err != nil {
				return err
			}
			created, err := c.Register(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("registration failed: %s", client.Message(err, "unexpected error"))
			}
			return writeOut(cmd, env, created, func() string { return "Registered " + userLine(created) })
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "Username")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email")
	cmd.Flags().StringVar(&req.Password, "password", envOr("TASKBOARD_PASSWORD", ""), "Password (or TASKBOARD_PASSWORD)")
	cmd.Flags().StringVar(&role, "role", string(user.RoleStaff), "Role (Staff|Manager|Admin)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := session.Clear(env.cfg.Session.Path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newMeCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := env.connect()
			if err != nil {
				return err
			}
			me, err := c.Me(cmd.Context())
			if err != nil {
				return notLoggedIn(err)
			}
			return writeOut(cmd, env, me, func() string { return userLine(me) })
		},
	}
}
