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

func NewSecretCommand(cfg *config.Config) *cobra.Command {
	var (
		profile       string
		compartmentID string
		vaultID       string
		onMissing     string
		onDenied      string
		join          bool
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "secret <name>...",
		Short: "Fetch secret payloads from OCI Vault by name",
		Long: `Look up one or more secrets by name and print their decoded payloads
to stdout, one per line, in the order the names were given.

When several secrets in scope share a name, every match is returned and a
warning notes the ambiguity. Missing names and access denials follow the
--on-missing and --on-denied policies: error aborts the run, warn logs and
continues, skip continues silently.

Examples:
  # Fetch a single secret
  ocilookup secret db_password

  # Fetch several, skipping any that do not exist
  ocilookup secret db_password api_key --on-missing skip

  # Concatenate key parts into one value
  ocilookup secret key_part_1 key_part_2 --join

  # Scope the name search to one vault
  ocilookup secret db_password --compartment-id ocid1.compartment.oc1..x --vault-id ocid1.vault.oc1..y`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load defaults file
			if err := cfg.Load(); err != nil {
				return err
			}

			// Validate policy before anything touches the network
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

			source, err := sources.NewVaultSecretSource(provider,
				firstNonEmpty(compartmentID, cfg.Defaults.CompartmentID),
				firstNonEmpty(vaultID, cfg.Defaults.VaultID))
			if err != nil {
				return dserrors.ServiceError("client setup", err)
			}

			aggregator := lookup.New(source, policy,
				lookup.WithWarner(cfg.Logger),
				lookup.WithJoin(join))

			results, err := aggregator.Run(cmd.Context(), args)
			if err != nil {
				return dserrors.ServiceError("secret lookup", err)
			}

			for i, result := range results {
				cfg.Logger.Debug("Result %d of %d: %s", i+1, len(results), logging.Secret(result))
			}

			return writeResults(cmd.OutOrStdout(), results, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Profile name in ~/.oci/config (default \"DEFAULT\")")
	cmd.Flags().StringVar(&compartmentID, "compartment-id", "", "Restrict the name search to a compartment OCID")
	cmd.Flags().StringVar(&vaultID, "vault-id", "", "Restrict the name search to a vault OCID")
	cmd.Flags().StringVar(&onMissing, "on-missing", "", "Action when a name has no match: error, warn, or skip (default \"error\")")
	cmd.Flags().StringVar(&onDenied, "on-denied", "", "Action when access is denied: error, warn, or skip (default \"error\")")
	cmd.Flags().BoolVar(&join, "join", false, "Concatenate all payloads into a single value")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output payloads as a JSON array")

	return cmd
}
