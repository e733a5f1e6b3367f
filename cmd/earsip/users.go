// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"earsip/internal/apperr"
	"earsip/internal/models"
	"earsip/internal/state"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			for _, u := range rt.app.Users() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Role, u.Status, u.Name)
			}
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "set-password <email> <password>",
		Short: "Set a user's password and activate the account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args[1]) < 6 {
				return apperr.Validation("password", "must be at least 6 characters")
			}

			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			var target *models.User
			for _, u := range rt.app.Users() {
				if strings.EqualFold(u.Email, strings.TrimSpace(args[0])) {
					target = &u
					break
				}
			}
			if target == nil {
				return apperr.NotFound("user", args[0])
			}

			_, err = rt.app.UpdateUser(cmd.Context(), cliActor, target.ID, state.UserInput{
				Name:     target.Name,
				Email:    target.Email,
				Status:   models.StatusActive,
				Password: args[1],
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", target.Email)
			return nil
		},
	}

	cmd.AddCommand(list, reset)
	return cmd
}
