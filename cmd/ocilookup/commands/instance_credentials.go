package commands

import (
	"github.com/spf13/cobra"
	"github.com/systmms/ocilookup/internal/auth"
	"github.com/systmms/ocilookup/internal/config"
	dserrors "github.com/systmms/ocilookup/internal/errors"
	"github.com/systmms/ocilookup/internal/logging"
	"github.com/systmms/ocilookup/internal/sources"
	"github.com/systmms/ocilookup/pkg/lookup"
)

func NewInstanceCredentialsCommand(cfg *config.Config) *cobra.Command {
	var (
		profile    string
		onMissing  string
		onDenied   string
		join       bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "instance-credentials <instance-ocid>...",
		Short: "Fetch initial credentials for Windows compute instances",
		Long: `Retrieve the initial credentials of one or more Windows compute
instances by OCID. Each result is printed as a JSON object with the
username and password.

Credentials are only available before the first password change on the
instance; after that OCI reports them as not found.

Examples:
  # Fetch credentials for one instance
  ocilookup instance-credentials ocid1.instance.oc1..example

  # Fetch several, warning on instances that no longer expose them
  ocilookup instance-credentials ocid1.instance.oc1..a ocid1.instance.oc1..b --on-missing warn`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			policy, err := parsePolicy(
				firstNonEmpty(onMissing, cfg.Defaults.OnMissing, "error"),
				firstNonEmpty(onDenied, cfg.Defaults.OnDenied, "error"),
			)
			if err != nil {
				return err
			}

			settings := auth.FromEnv(firstNonEmpty(profile, cfg.Defaults.Profile))
			cfg.Logger.Debug("Authenticating via %s (profile: %s)", settings.Mode, settings.Profile)

			provider, err := settings.ConfigurationProvider()
			if err != nil {
				return err
			}

			source, err := sources.NewInstanceCredentialsSource(provider)
			if err != nil {
				return dserrors.ServiceError("client setup", err)
			}

			aggregator := lookup.New(source, policy,
				lookup.WithWarner(cfg.Logger),
				lookup.WithJoin(join))

			results, err := aggregator.Run(cmd.Context(), args)
			if err != nil {
				return dserrors.ServiceError("instance credentials lookup", err)
			}

			for i, result := range results {
				cfg.Logger.Debug("Result %d of %d: %s", i+1, len(results), logging.Secret(result))
			}

			return writeResults(cmd.OutOrStdout(), results, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Profile name in ~/.oci/config (default \"DEFAULT\")")
	cmd.Flags().StringVar(&onMissing, "on-missing", "", "Action when an instance has no credentials: error, warn, or skip (default \"error\")")
	cmd.Flags().StringVar(&onDenied, "on-denied", "", "Action when access is denied: error, warn, or skip (default \"error\")")
	cmd.Flags().BoolVar(&join, "join", false, "Concatenate all results into a single value")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as a JSON array")

	return cmd
}
