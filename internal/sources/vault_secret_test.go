package sources

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/secrets"
	"github.com/oracle/oci-go-sdk/v65/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/ocilookup/pkg/lookup"
)

// fakeServiceError satisfies common.ServiceError the way the SDK's own
// service failures do.
type fakeServiceError struct {
	status  int
	code    string
	message string
}

func (e fakeServiceError) Error() string {
	return fmt.Sprintf("Service error:%s. %s. http status code: %d", e.code, e.message, e.status)
}
func (e fakeServiceError) GetHTTPStatusCode() int { return e.status }
func (e fakeServiceError) GetMessage() string     { return e.message }
func (e fakeServiceError) GetCode() string        { return e.code }
func (e fakeServiceError) GetOpcRequestID() string {
	return "fake-request-id"
}

type fakeVaultsClient struct {
	response vault.ListSecretsResponse
	err      error
	requests []vault.ListSecretsRequest
}

func (f *fakeVaultsClient) ListSecrets(_ context.Context, request vault.ListSecretsRequest) (vault.ListSecretsResponse, error) {
	f.requests = append(f.requests, request)
	return f.response, f.err
}

type fakeSecretsClient struct {
	bundles map[string]secrets.GetSecretBundleResponse
	err     error
}

func (f *fakeSecretsClient) GetSecretBundle(_ context.Context, request secrets.GetSecretBundleRequest) (secrets.GetSecretBundleResponse, error) {
	if f.err != nil {
		return secrets.GetSecretBundleResponse{}, f.err
	}
	return f.bundles[*request.SecretId], nil
}

func bundleResponse(payload string) secrets.GetSecretBundleResponse {
	encoded := base64.StdEncoding.EncodeToString([]byte(payload))
	return secrets.GetSecretBundleResponse{
		RawResponse: &http.Response{StatusCode: http.StatusOK},
		SecretBundle: secrets.SecretBundle{
			SecretBundleContent: secrets.Base64SecretBundleContentDetails{
				Content: common.String(encoded),
			},
		},
	}
}

func summary(id string) vault.SecretSummary {
	return vault.SecretSummary{Id: common.String(id)}
}

func newTestSource(t *testing.T, vaults *fakeVaultsClient, bundles *fakeSecretsClient) *VaultSecretSource {
	t.Helper()
	source, err := NewVaultSecretSource(nil, "ocid1.compartment.oc1..c", "ocid1.vault.oc1..v",
		WithVaultsClient(vaults), WithSecretsClient(bundles))
	require.NoError(t, err)
	return source
}

func TestVaultSecretSourceName(t *testing.T) {
	t.Parallel()
	source := newTestSource(t, &fakeVaultsClient{}, &fakeSecretsClient{})
	assert.Equal(t, "oci.vault", source.Name())
}

func TestVaultSecretLookupResolvesSingleMatch(t *testing.T) {
	t.Parallel()

	vaults := &fakeVaultsClient{response: vault.ListSecretsResponse{
		Items: []vault.SecretSummary{summary("ocid1.secret.oc1..a")},
	}}
	bundles := &fakeSecretsClient{bundles: map[string]secrets.GetSecretBundleResponse{
		"ocid1.secret.oc1..a": bundleResponse("hunter2"),
	}}
	source := newTestSource(t, vaults, bundles)

	outcome, err := source.Lookup(context.Background(), "db_password")
	require.NoError(t, err)
	assert.Equal(t, lookup.StateResolved, outcome.State)
	assert.Equal(t, []string{"hunter2"}, outcome.Payloads)
}

func TestVaultSecretLookupScopesTheListing(t *testing.T) {
	t.Parallel()

	vaults := &fakeVaultsClient{response: vault.ListSecretsResponse{}}
	source := newTestSource(t, vaults, &fakeSecretsClient{})

	_, err := source.Lookup(context.Background(), "db_password")
	require.NoError(t, err)

	require.Len(t, vaults.requests, 1)
	request := vaults.requests[0]
	assert.Equal(t, "db_password", *request.Name)
	assert.Equal(t, "ocid1.compartment.oc1..c", *request.CompartmentId)
	assert.Equal(t, "ocid1.vault.oc1..v", *request.VaultId)
	assert.Equal(t, vault.SecretSummaryLifecycleStateActive, request.LifecycleState)
}

func TestVaultSecretLookupMissingWhenNoMatches(t *testing.T) {
	t.Parallel()

	source := newTestSource(t, &fakeVaultsClient{response: vault.ListSecretsResponse{}}, &fakeSecretsClient{})

	outcome, err := source.Lookup(context.Background(), "absent")
	require.NoError(t, err)
	assert.Equal(t, lookup.StateMissing, outcome.State)
}

func TestVaultSecretLookupResolvesEveryAmbiguousMatch(t *testing.T) {
	t.Parallel()

	vaults := &fakeVaultsClient{response: vault.ListSecretsResponse{
		Items: []vault.SecretSummary{summary("ocid1.secret.oc1..a"), summary("ocid1.secret.oc1..b")},
	}}
	bundles := &fakeSecretsClient{bundles: map[string]secrets.GetSecretBundleResponse{
		"ocid1.secret.oc1..a": bundleResponse("first"),
		"ocid1.secret.oc1..b": bundleResponse("second"),
	}}
	source := newTestSource(t, vaults, bundles)

	outcome, err := source.Lookup(context.Background(), "shared-name")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, outcome.Payloads)
}

func TestVaultSecretLookupClassifies404AsMissing(t *testing.T) {
	t.Parallel()

	vaults := &fakeVaultsClient{err: fakeServiceError{status: 404, code: "NotFound", message: "vault not found"}}
	source := newTestSource(t, vaults, &fakeSecretsClient{})

	outcome, err := source.Lookup(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, lookup.StateMissing, outcome.State)
}

func TestVaultSecretLookupClassifiesServiceErrorAsDenied(t *testing.T) {
	t.Parallel()

	vaults := &fakeVaultsClient{err: fakeServiceError{
		status: 403, code: "NotAuthorizedOrNotFound", message: "authorization failed",
	}}
	source := newTestSource(t, vaults, &fakeSecretsClient{})

	outcome, err := source.Lookup(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, lookup.StateDenied, outcome.State)
	assert.Contains(t, outcome.Reason, "NotAuthorizedOrNotFound")
}

func TestVaultSecretLookupBundleDenialClassified(t *testing.T) {
	t.Parallel()

	vaults := &fakeVaultsClient{response: vault.ListSecretsResponse{
		Items: []vault.SecretSummary{summary("ocid1.secret.oc1..a")},
	}}
	bundles := &fakeSecretsClient{err: fakeServiceError{status: 401, code: "NotAuthenticated", message: "auth required"}}
	source := newTestSource(t, vaults, bundles)

	outcome, err := source.Lookup(context.Background(), "db_password")
	require.NoError(t, err)
	assert.Equal(t, lookup.StateDenied, outcome.State)
}

func TestVaultSecretLookupTransportErrorIsFatal(t *testing.T) {
	t.Parallel()

	vaults := &fakeVaultsClient{err: errors.New("dial tcp: connection refused")}
	source := newTestSource(t, vaults, &fakeSecretsClient{})

	_, err := source.Lookup(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestVaultSecretLookupUnexpectedBundleStatusIsFatal(t *testing.T) {
	t.Parallel()

	vaults := &fakeVaultsClient{response: vault.ListSecretsResponse{
		Items: []vault.SecretSummary{summary("ocid1.secret.oc1..a")},
	}}
	response := bundleResponse("ignored")
	response.RawResponse = &http.Response{StatusCode: http.StatusAccepted}
	bundles := &fakeSecretsClient{bundles: map[string]secrets.GetSecretBundleResponse{
		"ocid1.secret.oc1..a": response,
	}}
	source := newTestSource(t, vaults, bundles)

	_, err := source.Lookup(context.Background(), "db_password")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 202")
}

func TestVaultSecretLookupNonBase64ContentIsFatal(t *testing.T) {
	t.Parallel()

	vaults := &fakeVaultsClient{response: vault.ListSecretsResponse{
		Items: []vault.SecretSummary{summary("ocid1.secret.oc1..a")},
	}}
	bundles := &fakeSecretsClient{bundles: map[string]secrets.GetSecretBundleResponse{
		"ocid1.secret.oc1..a": {
			RawResponse: &http.Response{StatusCode: http.StatusOK},
			SecretBundle: secrets.SecretBundle{
				SecretBundleContent: secrets.Base64SecretBundleContentDetails{
					Content: common.String("not*base64!"),
				},
			},
		},
	}}
	source := newTestSource(t, vaults, bundles)

	_, err := source.Lookup(context.Background(), "db_password")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode secret bundle")
}

func TestVaultSecretLookupUTF8Payload(t *testing.T) {
	t.Parallel()

	vaults := &fakeVaultsClient{response: vault.ListSecretsResponse{
		Items: []vault.SecretSummary{summary("ocid1.secret.oc1..a")},
	}}
	bundles := &fakeSecretsClient{bundles: map[string]secrets.GetSecretBundleResponse{
		"ocid1.secret.oc1..a": bundleResponse("paßword-世界"),
	}}
	source := newTestSource(t, vaults, bundles)

	outcome, err := source.Lookup(context.Background(), "db_password")
	require.NoError(t, err)
	assert.Equal(t, []string{"paßword-世界"}, outcome.Payloads)
}
