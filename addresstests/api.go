package addresstests

import (
	"net/http"

	"github.com/addrcheck/webhook-contract-tests/framework"
	"github.com/addrcheck/webhook-contract-tests/servicedef"

	"github.com/stretchr/testify/require"
)

// T represents a test in the address validation suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner. Those features are provided by the lower-level framework
// package. To make test assertions, you can use the assert and require packages, passing the
// *T as if it were a *testing.T.
type T struct {
	context *framework.Context
	env     *environment
}

type environment struct {
	harness *framework.TestHarness
	config  Config
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(&T{context: c, env: t.env})
	})
}

// ID returns the identifier of this test.
func (t *T) ID() framework.TestID {
	return t.context.ID()
}

// Info reports a progress line for the test.
func (t *T) Info(format string, args ...interface{}) {
	t.context.Info(format, args...)
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Validate posts an address to the validation webhook and returns the decoded response.
//
// The test fails and immediately exits if the request cannot be sent or if the webhook does not
// answer HTTP 200.
func (t *T) Validate(address servicedef.AddressInput) servicedef.ValidationResponse {
	t.Debug("Sending %s to the validation webhook", t.ID())
	resp, err := t.env.harness.PostJSON(
		t.context.RequestContext(),
		t.env.config.WebhookURL(),
		address,
		t.context.DebugLogger(),
	)
	require.NoError(t, err, "request to validation webhook failed")
	if resp.StatusCode != http.StatusOK {
		require.Fail(t, "validation webhook returned an error status", "HTTP %d: %s", resp.StatusCode, resp)
	}
	return servicedef.ParseValidationResponse(resp.Body)
}
