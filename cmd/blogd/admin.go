package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"blogd/internal/config"
	"blogd/internal/store"
)

func newAdminCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative commands",
	}

	cmd.AddCommand(newAdminPromoteCmd(cfg))
	cmd.AddCommand(newAdminDemoteCmd(cfg))
	return cmd
}

func newAdminPromoteCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email>",
		Short: "Grant admin rights to an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setAdmin(cmd, cfg, args[0], true)
		},
	}
}

func newAdminDemoteCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "demote <email>",
		Short: "Revoke admin rights from an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setAdmin(cmd, cfg, args[0], false)
		},
	}
}

// setAdmin works against the database directly so admin rights can be
// bootstrapped before any admin token exists.
func setAdmin(cmd *cobra.Command, cfg *config.Config, email string, isAdmin bool) error {
	if cfg == nil || cfg.DBPath == "" {
		return fmt.Errorf("db path is required")
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	user, err := st.SetAdminByEmail(cmd.Context(), email, isAdmin)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no account with email %q", email)
	}

	state := "admin"
	if !isAdmin {
		state = "regular user"
	}
	cmd.Printf("%s (%s) is now %s\n", user.UserName, user.Email, state)
	return nil
}
