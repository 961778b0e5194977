package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/systmms/ocilookup/internal/auth"
	"github.com/systmms/ocilookup/internal/config"
	dserrors "github.com/systmms/ocilookup/internal/errors"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check authentication configuration and connectivity",
		Long: `Verify that ocilookup can authenticate against OCI.

This command checks:
- Defaults file validity (if present)
- Which authentication mode and profile are in effect
- That the configured credentials yield a tenancy and region`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger.Info("Checking ocilookup configuration...")
			if err := cfg.Load(); err != nil {
				cfg.Logger.Error("Defaults file error: %v", err)
				return err
			}
			cfg.Logger.Info("Defaults file OK (%s)", cfg.Path)

			settings := auth.FromEnv(firstNonEmpty(profile, cfg.Defaults.Profile))

			provider, err := settings.ConfigurationProvider()
			if err != nil {
				cfg.Logger.Error("Authentication setup failed: %v", err)
				return err
			}

			tenancy, err := provider.TenancyOCID()
			if err != nil {
				return dserrors.ServiceError("credential check", err)
			}
			region, err := provider.Region()
			if err != nil {
				return dserrors.ServiceError("credential check", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(w, "SETTING\tVALUE\n")
			_, _ = fmt.Fprintf(w, "-------\t-----\n")
			_, _ = fmt.Fprintf(w, "auth mode\t%s\n", settings.Mode)
			if settings.Mode == auth.ModeAPIKey {
				_, _ = fmt.Fprintf(w, "profile\t%s\n", settings.Profile)
				_, _ = fmt.Fprintf(w, "config file\t%s\n", settings.ConfigPath)
			}
			_, _ = fmt.Fprintf(w, "tenancy\t%s\n", tenancy)
			_, _ = fmt.Fprintf(w, "region\t%s\n", region)
			_ = w.Flush()

			cfg.Logger.Info("Authentication context is ready")
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Profile name in ~/.oci/config (default \"DEFAULT\")")

	return cmd
}
