package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/diewo77/go-profiles/gate"
	"github.com/diewo77/go-profiles/internal/policy"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var module bool
	cmd := &cobra.Command{
		Use:   "check <user-id> <code> <action>",
		Short: "Report whether a user may perform an action on a resource or module",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}
			action, ok := gate.ParseAction(args[2])
			if !ok {
				return errors.New("unknown action " + args[2])
			}
			resource := args[1]
			if module {
				resource = policy.ModulePrefix + resource
			}
			return run(cmd, opts, func(a *app) (any, error) {
				v := checkView{UserID: userID, Resource: resource, Action: action}
				err := a.gate.Authorize(cmd.Context(), userID, action, resource)
				switch {
				case err == nil:
					v.Allowed = true
				case errors.Is(err, gate.ErrUnauthorized), errors.Is(err, gate.ErrNoProfile):
					v.Reason = err.Error()
				default:
					return nil, err
				}
				return v, nil
			})
		},
	}
	cmd.Flags().BoolVar(&module, "module", false, "Treat <code> as a module code")
	return cmd
}
