// Package sources adapts the OCI SDK to the lookup.Source interface.
//
// Each lookup flavor (vault secret by name, windows instance initial
// credentials) is a small adapter over one or two SDK clients. Service
// failures are classified into the tagged lookup outcomes so the aggregator
// can apply policy; anything outside the service's error model stays a
// plain error and aborts the run.
package sources

import (
	"errors"
	"net/http"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/systmms/ocilookup/pkg/lookup"
)

// classifyServiceError maps an OCI service error onto a lookup outcome.
// 404 means the resource does not exist (missing); every other service
// error counts as denied, with the full error text preserved. The second
// return is false for transport or protocol failures, which callers must
// surface as fatal.
func classifyServiceError(err error) (lookup.Outcome, bool) {
	var serviceErr common.ServiceError
	if !errors.As(err, &serviceErr) {
		return lookup.Outcome{}, false
	}
	if serviceErr.GetHTTPStatusCode() == http.StatusNotFound {
		return lookup.Missing(), true
	}
	return lookup.Denied(err.Error()), true
}
