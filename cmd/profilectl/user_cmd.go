package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/diewo77/go-profiles/internal/models"
)

func newUserCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage administrators and their profile",
	}
	cmd.AddCommand(newUserAddCmd(opts), newUserAssignCmd(opts))
	return cmd
}

func newUserAddCmd(opts *rootOptions) *cobra.Command {
	var email, name string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an administrator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(a *app) (any, error) {
				u, err := a.users.CreateUser(cmd.Context(), email, name)
				if err != nil {
					return nil, err
				}
				return newUserView(u), nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	return cmd
}

func newUserAssignCmd(opts *rootOptions) *cobra.Command {
	var (
		profile string
		none    bool
	)
	cmd := &cobra.Command{
		Use:   "assign <user-id>",
		Short: "Assign a profile to a user (--none removes it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}
			var profileID *uint
			switch {
			case none:
			case profile == "":
				return errors.New("either --profile or --none is required")
			default:
				id, err := parseID(profile)
				if err != nil {
					return err
				}
				profileID = &id
			}
			return run(cmd, opts, func(a *app) (any, error) {
				if err := a.users.Assign(cmd.Context(), userID, profileID); err != nil {
					return nil, err
				}
				var u models.User
				if err := a.db.WithContext(cmd.Context()).First(&u, userID).Error; err != nil {
					return nil, err
				}
				return newUserView(&u), nil
			})
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "Profile id")
	cmd.Flags().BoolVar(&none, "none", false, "Remove the profile assignment")
	cmd.MarkFlagsMutuallyExclusive("profile", "none")
	return cmd
}

func newUserView(u *models.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name, ProfileID: u.ProfileID}
}
