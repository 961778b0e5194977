package sources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
	"github.com/systmms/ocilookup/pkg/lookup"
)

// ComputeClientAPI is the slice of the OCI Compute API the source needs.
type ComputeClientAPI interface {
	GetWindowsInstanceInitialCredentials(ctx context.Context, request core.GetWindowsInstanceInitialCredentialsRequest) (core.GetWindowsInstanceInitialCredentialsResponse, error)
}

// InstanceCredentialsSource resolves the initial generated credentials of a
// Windows compute instance by its OCID. The payload is a compact JSON
// object holding username and password, so it aggregates and joins like any
// other secret value.
type InstanceCredentialsSource struct {
	compute ComputeClientAPI
}

// InstanceCredentialsOption configures an InstanceCredentialsSource.
type InstanceCredentialsOption func(*InstanceCredentialsSource)

// WithComputeClient sets a custom compute client (for testing)
func WithComputeClient(client ComputeClientAPI) InstanceCredentialsOption {
	return func(s *InstanceCredentialsSource) {
		s.compute = client
	}
}

// NewInstanceCredentialsSource creates an instance-credentials source.
func NewInstanceCredentialsSource(provider common.ConfigurationProvider, opts ...InstanceCredentialsOption) (*InstanceCredentialsSource, error) {
	s := &InstanceCredentialsSource{}

	for _, opt := range opts {
		opt(s)
	}

	if s.compute == nil {
		client, err := core.NewComputeClientWithConfigurationProvider(provider)
		if err != nil {
			return nil, fmt.Errorf("failed to create compute client: %w", err)
		}
		s.compute = client
	}

	return s, nil
}

// Name returns the source identifier used in fatal messages.
func (s *InstanceCredentialsSource) Name() string {
	return "oci.compute"
}

// Lookup fetches the windows initial credentials for one instance OCID.
func (s *InstanceCredentialsSource) Lookup(ctx context.Context, term string) (lookup.Outcome, error) {
	response, err := s.compute.GetWindowsInstanceInitialCredentials(ctx, core.GetWindowsInstanceInitialCredentialsRequest{
		InstanceId: common.String(term),
	})
	if err != nil {
		if outcome, ok := classifyServiceError(err); ok {
			return outcome, nil
		}
		return lookup.Outcome{}, err
	}

	payload, err := renderCredentials(response.InstanceCredentials)
	if err != nil {
		return lookup.Outcome{}, err
	}
	return lookup.Resolved(payload), nil
}

func renderCredentials(credentials core.InstanceCredentials) (string, error) {
	out := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{}
	if credentials.Username != nil {
		out.Username = *credentials.Username
	}
	if credentials.Password != nil {
		out.Password = *credentials.Password
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to render instance credentials: %w", err)
	}
	return string(data), nil
}
