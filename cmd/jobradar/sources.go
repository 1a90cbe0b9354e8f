package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobradar/internal/config"
	"jobradar/internal/domain"
	"jobradar/internal/poll"
	"jobradar/internal/store"
)

var errNotSQLite = errors.New("sources.registry is not sqlite; edit the config file instead")

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Inspect and manage the company registry",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list [family]",
	Short: "List registered companies",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}

		families := []string{"greenhouse", "lever", "smartrecruiters", "careers"}
		if len(args) == 1 {
			families = []string{strings.ToLower(args[0])}
		}
		enabled := map[string]bool{}
		for _, f := range poll.Families(cfg.Sources) {
			enabled[f] = true
		}

		out := cmd.OutOrStdout()
		if cfg.Sources.Registry != config.RegistrySQLite {
			reg := config.StaticRegistry{Sources: cfg.Sources}
			for _, f := range families {
				cos, err := reg.Companies(cmd.Context(), f)
				if err != nil {
					return err
				}
				for _, c := range cos {
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", f, c.ID(), c.DisplayName(), state(enabled[f]))
				}
			}
			return nil
		}

		return withStore(cmd.Context(), cfg, func(reg *store.Registry) error {
			for _, f := range families {
				all, err := reg.All(cmd.Context(), f)
				if err != nil {
					return err
				}
				on, err := reg.Companies(cmd.Context(), f)
				if err != nil {
					return err
				}
				active := map[string]bool{}
				for _, c := range on {
					active[c.ID()] = true
				}
				for _, c := range all {
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", f, c.ID(), c.DisplayName(), state(enabled[f] && active[c.ID()]))
				}
			}
			return nil
		})
	},
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add <family> <slug-or-url>",
	Short: "Add or update a company in the sqlite registry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		role, _ := cmd.Flags().GetString("role")
		loc, _ := cmd.Flags().GetString("location")

		co := domain.Company{ATSType: strings.ToLower(args[0]), Name: name, Role: role, Location: loc}
		if co.ATSType == domain.SourceCareers.Key() {
			co.URL = args[1]
		} else {
			co.Slug = args[1]
		}

		return withStore(cmd.Context(), cfg, func(reg *store.Registry) error {
			if err := reg.Upsert(cmd.Context(), co); err != nil {
				return err
			}
			appLogger.Info("company saved", zap.String("family", co.ATSType), zap.String("company", co.ID()))
			return nil
		})
	},
}

func toggleCmd(use, short string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <family> <slug-or-url>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(false)
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), cfg, func(reg *store.Registry) error {
				ok, err := reg.SetEnabled(cmd.Context(), args[0], args[1], enabled)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no %s company %q in the registry", args[0], args[1])
				}
				return nil
			})
		},
	}
}

var sourcesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the companies listed in the config into the sqlite registry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}
		static := config.StaticRegistry{Sources: cfg.Sources}

		return withStore(cmd.Context(), cfg, func(reg *store.Registry) error {
			n := 0
			for _, f := range []string{"greenhouse", "lever", "smartrecruiters", "careers"} {
				cos, err := static.Companies(cmd.Context(), f)
				if err != nil {
					return err
				}
				for _, c := range cos {
					if err := reg.Upsert(cmd.Context(), c); err != nil {
						return fmt.Errorf("import %s/%s: %w", f, c.ID(), err)
					}
					n++
				}
			}
			appLogger.Info("registry import done", zap.Int("companies", n))
			return nil
		})
	},
}

func init() {
	sourcesAddCmd.Flags().String("name", "", "display name")
	sourcesAddCmd.Flags().String("role", "", "role label for a careers page")
	sourcesAddCmd.Flags().String("location", "", "location hint for a careers page")

	sourcesCmd.AddCommand(sourcesListCmd, sourcesAddCmd, sourcesImportCmd,
		toggleCmd("enable", "Enable a company in the sqlite registry", true),
		toggleCmd("disable", "Disable a company in the sqlite registry", false),
	)
	rootCmd.AddCommand(sourcesCmd)
}

// withStore opens the sqlite registry named by cfg for one command.
func withStore(ctx context.Context, cfg config.Config, fn func(*store.Registry) error) error {
	if cfg.Sources.Registry != config.RegistrySQLite {
		return errNotSQLite
	}
	db, err := store.Open(ctx, cfg.Sources.RegistryDB)
	if err != nil {
		return fmt.Errorf("open registry %s: %w", cfg.Sources.RegistryDB, err)
	}
	defer db.Close()
	return fn(store.NewRegistry(db))
}

func state(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
