package main

import (
	"github.com/spf13/cobra"

	"github.com/diewo77/go-profiles/internal/events"
	"github.com/diewo77/go-profiles/internal/models"
)

func newProfileCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Create, update and inspect profiles",
	}
	cmd.AddCommand(
		newProfileCreateCmd(opts),
		newProfileUpdateCmd(opts),
		newProfileAccessCmd(opts, "access", "Replace the resource access of a profile"),
		newProfileAccessCmd(opts, "module-access", "Replace the module access of a profile"),
		newProfileShowCmd(opts),
		newProfileListCmd(opts),
	)
	return cmd
}

// textFlags binds the localized profile fields.
type textFlags struct {
	locale, title, chapo, description, postscriptum string
}

func (f *textFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.locale, "locale", "", "Locale of the texts (default DEFAULT_LOCALE)")
	cmd.Flags().StringVar(&f.title, "title", "", "Display title")
	cmd.Flags().StringVar(&f.chapo, "chapo", "", "Lead paragraph")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringVar(&f.postscriptum, "postscriptum", "", "Closing note")
}

// apply copies the flags the user set into ev; unset flags stay nil.
func (f *textFlags) apply(cmd *cobra.Command, ev *events.ProfileEvent) {
	ev.Locale = f.locale
	set := func(name, value string) *string {
		if cmd.Flags().Changed(name) {
			return events.String(value)
		}
		return nil
	}
	ev.Title = set("title", f.title)
	ev.Chapo = set("chapo", f.chapo)
	ev.Description = set("description", f.description)
	ev.Postscriptum = set("postscriptum", f.postscriptum)
}

func newProfileCreateCmd(opts *rootOptions) *cobra.Command {
	var (
		code  string
		texts textFlags
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(a *app) (any, error) {
				ev := &events.ProfileEvent{Code: code}
				texts.apply(cmd, ev)
				if err := a.profiles.Create(cmd.Context(), ev); err != nil {
					return nil, err
				}
				return newProfileView(ev.Profile), nil
			})
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Unique profile code")
	texts.register(cmd)
	return cmd
}

func newProfileUpdateCmd(opts *rootOptions) *cobra.Command {
	var texts textFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the localized texts of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(cmd, opts, func(a *app) (any, error) {
				ev := &events.ProfileEvent{ID: id}
				texts.apply(cmd, ev)
				if err := a.profiles.Update(cmd.Context(), ev); err != nil {
					return nil, err
				}
				return newProfileView(ev.Profile), nil
			})
		},
	}
	texts.register(cmd)
	return cmd
}

func newProfileAccessCmd(opts *rootOptions, use, short string) *cobra.Command {
	var grants []string
	cmd := &cobra.Command{
		Use:     use + " <id>",
		Short:   short,
		Long:    short + ". Codes not listed lose their access; no --grant clears everything.",
		Example: "  profilectl profile " + use + " 3 --grant admin.address=view,create --grant admin.order=view",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			access, err := parseGrants(grants)
			if err != nil {
				return err
			}
			return run(cmd, opts, func(a *app) (any, error) {
				ev := &events.ProfileEvent{ID: id}
				if use == "module-access" {
					ev.ModuleAccess = access
					err = a.profiles.UpdateModuleAccess(cmd.Context(), ev)
				} else {
					ev.ResourceAccess = access
					err = a.profiles.UpdateResourceAccess(cmd.Context(), ev)
				}
				if err != nil {
					return nil, err
				}
				return newProfileView(ev.Profile), nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&grants, "grant", nil, "code=action[,action] (repeatable)")
	return cmd
}

func newProfileShowCmd(opts *rootOptions) *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one profile by id or --code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(a *app) (any, error) {
				var (
					p   *models.Profile
					err error
				)
				if len(args) == 1 {
					id, perr := parseID(args[0])
					if perr != nil {
						return nil, perr
					}
					p, err = a.profiles.Get(cmd.Context(), id)
				} else {
					p, err = a.profiles.FindByCode(cmd.Context(), code)
				}
				if err != nil {
					return nil, err
				}
				return newProfileView(p), nil
			})
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Profile code")
	return cmd
}

func newProfileListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, func(a *app) (any, error) {
				profiles, err := a.profiles.List(cmd.Context())
				if err != nil {
					return nil, err
				}
				views := make([]profileView, len(profiles))
				for i := range profiles {
					views[i] = newProfileView(&profiles[i])
				}
				return views, nil
			})
		},
	}
}
