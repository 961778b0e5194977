package sources

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/secrets"
	"github.com/oracle/oci-go-sdk/v65/vault"
	"github.com/systmms/ocilookup/pkg/lookup"
)

// VaultsClientAPI is the slice of the OCI Vaults API the source needs.
// Narrowed to an interface so tests can inject fakes.
type VaultsClientAPI interface {
	ListSecrets(ctx context.Context, request vault.ListSecretsRequest) (vault.ListSecretsResponse, error)
}

// SecretsClientAPI is the slice of the OCI Secrets (bundle retrieval) API
// the source needs.
type SecretsClientAPI interface {
	GetSecretBundle(ctx context.Context, request secrets.GetSecretBundleRequest) (secrets.GetSecretBundleResponse, error)
}

// VaultSecretSource resolves vault secrets by name within an optional
// compartment/vault scope. A name lookup lists matching active secrets,
// then fetches and decodes the current bundle of every match.
type VaultSecretSource struct {
	vaults        VaultsClientAPI
	bundles       SecretsClientAPI
	compartmentID string
	vaultID       string
}

// VaultSecretOption configures a VaultSecretSource.
type VaultSecretOption func(*VaultSecretSource)

// WithVaultsClient sets a custom vaults client (for testing)
func WithVaultsClient(client VaultsClientAPI) VaultSecretOption {
	return func(s *VaultSecretSource) {
		s.vaults = client
	}
}

// WithSecretsClient sets a custom secret-bundle client (for testing)
func WithSecretsClient(client SecretsClientAPI) VaultSecretOption {
	return func(s *VaultSecretSource) {
		s.bundles = client
	}
}

// NewVaultSecretSource creates a vault secret source. Real clients are
// built from the configuration provider unless options inject replacements.
func NewVaultSecretSource(provider common.ConfigurationProvider, compartmentID, vaultID string, opts ...VaultSecretOption) (*VaultSecretSource, error) {
	s := &VaultSecretSource{
		compartmentID: compartmentID,
		vaultID:       vaultID,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.vaults == nil {
		client, err := vault.NewVaultsClientWithConfigurationProvider(provider)
		if err != nil {
			return nil, fmt.Errorf("failed to create vaults client: %w", err)
		}
		s.vaults = client
	}

	if s.bundles == nil {
		client, err := secrets.NewSecretsClientWithConfigurationProvider(provider)
		if err != nil {
			return nil, fmt.Errorf("failed to create secrets client: %w", err)
		}
		s.bundles = client
	}

	return s, nil
}

// Name returns the source identifier used in fatal messages.
func (s *VaultSecretSource) Name() string {
	return "oci.vault"
}

// Lookup lists active secrets matching the name and fetches every match's
// bundle. Zero matches is a missing outcome; service errors classify per
// classifyServiceError; a malformed or non-200 bundle response is fatal.
func (s *VaultSecretSource) Lookup(ctx context.Context, term string) (lookup.Outcome, error) {
	request := vault.ListSecretsRequest{
		Name:           common.String(term),
		LifecycleState: vault.SecretSummaryLifecycleStateActive,
	}
	if s.compartmentID != "" {
		request.CompartmentId = common.String(s.compartmentID)
	}
	if s.vaultID != "" {
		request.VaultId = common.String(s.vaultID)
	}

	response, err := s.vaults.ListSecrets(ctx, request)
	if err != nil {
		if outcome, ok := classifyServiceError(err); ok {
			return outcome, nil
		}
		return lookup.Outcome{}, err
	}

	if len(response.Items) == 0 {
		return lookup.Missing(), nil
	}

	payloads := make([]string, 0, len(response.Items))
	for _, summary := range response.Items {
		if summary.Id == nil {
			return lookup.Outcome{}, fmt.Errorf("secret listing for %s returned an entry without an id", term)
		}
		payload, err := s.fetchBundle(ctx, *summary.Id)
		if err != nil {
			if outcome, ok := classifyServiceError(err); ok {
				return outcome, nil
			}
			return lookup.Outcome{}, err
		}
		payloads = append(payloads, payload)
	}

	return lookup.Resolved(payloads...), nil
}

// fetchBundle retrieves the current secret bundle and decodes its base64
// content into UTF-8 text.
func (s *VaultSecretSource) fetchBundle(ctx context.Context, secretID string) (string, error) {
	response, err := s.bundles.GetSecretBundle(ctx, secrets.GetSecretBundleRequest{
		SecretId: common.String(secretID),
	})
	if err != nil {
		return "", err
	}

	if response.RawResponse != nil && response.RawResponse.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching secret bundle %s", response.RawResponse.StatusCode, secretID)
	}

	content, ok := response.SecretBundleContent.(secrets.Base64SecretBundleContentDetails)
	if !ok || content.Content == nil {
		return "", fmt.Errorf("secret bundle %s has no base64 content", secretID)
	}

	decoded, err := base64.StdEncoding.DecodeString(*content.Content)
	if err != nil {
		return "", fmt.Errorf("failed to decode secret bundle %s: %w", secretID, err)
	}

	return string(decoded), nil
}
