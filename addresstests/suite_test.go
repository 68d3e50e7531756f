package addresstests

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/addrcheck/webhook-contract-tests/framework"
	"github.com/addrcheck/webhook-contract-tests/servicedef"
	"github.com/addrcheck/webhook-contract-tests/stubservice"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type stubServices struct {
	proxy   *httptest.Server
	webhook *httptest.Server
	config  Config
}

func startStubServices(t *testing.T, webhookHandler http.Handler) stubServices {
	cfg := DefaultConfig()
	if webhookHandler == nil {
		webhookHandler = stubservice.NewWebhookHandler(cfg.WebhookPath, nil)
	}
	s := stubServices{
		proxy:   httptest.NewServer(stubservice.NewProxyHandler(nil)),
		webhook: httptest.NewServer(webhookHandler),
	}
	t.Cleanup(s.proxy.Close)
	t.Cleanup(s.webhook.Close)
	cfg.ProxyBaseURL = s.proxy.URL
	cfg.WorkflowBaseURL = s.webhook.URL
	s.config = cfg
	return s
}

func newHarness() (*framework.TestHarness, *bytes.Buffer) {
	var buf bytes.Buffer
	return framework.NewTestHarness(framework.NewJSONClient(nil), nil, &buf), &buf
}

func TestDefaultFixturesPassAgainstStubService(t *testing.T) {
	s := startStubServices(t, nil)
	h, _ := newHarness()

	results, err := Run(context.Background(), h, s.config, DefaultFixtures(), nil, nil)
	require.NoError(t, err)

	for _, f := range results.Failures {
		t.Errorf("unexpected failure in %s: %v", f.TestID, f.Errors)
	}
	assert.Equal(t, 5, results.Passed())
	assert.Equal(t, 0, results.Failed())
	assert.Equal(t, float64(100), results.SuccessRate())
}

func TestRunIsRepeatable(t *testing.T) {
	s := startStubServices(t, nil)
	h, _ := newHarness()

	fixtures := append(DefaultFixtures(), Fixture{
		Name:     "Wrong expectation",
		Input:    DefaultFixtures()[0].Input,
		Expected: Expectation{IsValid: ldvalue.Bool(false)},
	})
	first, err := Run(context.Background(), h, s.config, fixtures, nil, nil)
	require.NoError(t, err)
	second, err := Run(context.Background(), h, s.config, fixtures, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, first.Passed())
	assert.Equal(t, 1, first.Failed())
	assert.Equal(t, first.Passed(), second.Passed())
	assert.Equal(t, first.Failed(), second.Failed())
	assert.Equal(t, first.SuccessRate(), second.SuccessRate())
}

func TestRunStopsWhenProxyIsDown(t *testing.T) {
	webhook, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	s := startStubServices(t, webhook)
	s.proxy.Close()
	h, out := newHarness()

	results, err := Run(context.Background(), h, s.config, DefaultFixtures(), nil, nil)
	require.Error(t, err)

	var probeErr *framework.ProbeError
	require.True(t, errors.As(err, &probeErr))
	assert.Equal(t, "address proxy", probeErr.Probe.Name)
	assert.Contains(t, probeErr.Probe.Remediation, "python mcp-http-proxy.py")
	assert.Empty(t, results.Tests)
	assert.Len(t, requestsCh, 0)
	assert.Contains(t, out.String(), "❌ address proxy error")
}

func TestRunStopsWhenWorkflowIsNotActive(t *testing.T) {
	webhook, requestsCh := httphelpers.RecordingHandler(
		httphelpers.HandlerWithResponse(404, nil, []byte(`{"message": "webhook not registered"}`)))
	s := startStubServices(t, webhook)
	h, _ := newHarness()

	results, err := Run(context.Background(), h, s.config, DefaultFixtures(), nil, nil)

	var probeErr *framework.ProbeError
	require.True(t, errors.As(err, &probeErr))
	assert.Equal(t, "n8n workflow", probeErr.Probe.Name)
	assert.Equal(t, 404, probeErr.StatusCode)
	assert.Empty(t, results.Tests)
	assert.Len(t, requestsCh, 1)
}

func TestWorkflowProbeSendsSyntheticAddress(t *testing.T) {
	webhook, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	s := startStubServices(t, webhook)
	h, _ := newHarness()

	assert.True(t, ProbeWorkflow(context.Background(), h, s.config))
	r := <-requestsCh
	assert.Equal(t, DefaultWebhookPath, r.Request.URL.Path)
	assert.JSONEq(t,
		`{"firstname": "Test", "lastname": "User", "street": "Teststrasse 1", "city": "Zürich", "postcode": "8001"}`,
		string(r.Body))
}

func TestProxyProbe(t *testing.T) {
	s := startStubServices(t, nil)
	h, _ := newHarness()
	assert.True(t, ProbeProxy(context.Background(), h, s.config))

	s.proxy.Close()
	assert.False(t, ProbeProxy(context.Background(), h, s.config))
}

func TestNon200ResponseFailsOnlyThatFixture(t *testing.T) {
	stub := stubservice.NewWebhookHandler(DefaultWebhookPath, nil)
	var calls int32
	webhook := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 2 {
			w.WriteHeader(500)
			_, _ = w.Write([]byte("Workflow execution failed"))
			return
		}
		stub.ServeHTTP(w, r)
	})
	s := startStubServices(t, webhook)
	h, _ := newHarness()

	results := RunTestSuite(context.Background(), h, s.config, DefaultFixtures()[:3], nil, nil)

	assert.Equal(t, 2, results.Passed())
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "Postcode and city swapped", results.Failures[0].TestID.String())
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "HTTP 500")
}

func TestEmptyExpectationPassesOnAny200(t *testing.T) {
	webhook := httphelpers.HandlerWithResponse(200, nil, []byte("not even JSON"))
	s := startStubServices(t, webhook)
	h, _ := newHarness()

	results := RunTestSuite(context.Background(), h, s.config, []Fixture{{Name: "anything"}}, nil, nil)
	assert.Equal(t, 1, results.Passed())
}

func TestNonJSONBodyFailsExpectations(t *testing.T) {
	webhook := httphelpers.HandlerWithResponse(200, nil, []byte("not even JSON"))
	s := startStubServices(t, webhook)
	h, _ := newHarness()

	fixtures := []Fixture{{Name: "expects valid", Expected: Expectation{IsValid: ldvalue.Bool(true)}}}
	results := RunTestSuite(context.Background(), h, s.config, fixtures, nil, nil)
	assert.Equal(t, 1, results.Failed())
}

func TestTransportErrorFailsEachFixtureAndContinues(t *testing.T) {
	s := startStubServices(t, nil)
	s.webhook.Close()
	h, _ := newHarness()

	results := RunTestSuite(context.Background(), h, s.config, DefaultFixtures(), nil, nil)
	assert.Equal(t, 0, results.Passed())
	assert.Equal(t, 5, results.Failed())
	assert.Equal(t, float64(0), results.SuccessRate())
}

func TestStrictQualityChangesVerdict(t *testing.T) {
	webhook := httphelpers.HandlerWithJSONResponse(map[string]interface{}{
		"success": true,
		"isValid": true,
		"quality": map[string]interface{}{"level": servicedef.QualityUsable, "score": 50},
	}, nil)
	s := startStubServices(t, webhook)
	h, _ := newHarness()
	fixtures := DefaultFixtures()[:1]

	lenient := RunTestSuite(context.Background(), h, s.config, fixtures, nil, nil)
	assert.Equal(t, 1, lenient.Passed())

	s.config.StrictQuality = true
	strict := RunTestSuite(context.Background(), h, s.config, fixtures, nil, nil)
	assert.Equal(t, 1, strict.Failed())
}

func TestFilteredFixturesAreNotSent(t *testing.T) {
	webhook, paths := countingHandler(stubservice.NewWebhookHandler(DefaultWebhookPath, nil))
	s := startStubServices(t, webhook)
	h, _ := newHarness()

	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("(?i)postcode"))
	results := RunTestSuite(context.Background(), h, s.config, DefaultFixtures(), filters.AsFilter, nil)

	for _, f := range results.Failures {
		t.Errorf("unexpected failure in %s: %v", f.TestID, f.Errors)
	}
	assert.Equal(t, 2, results.Passed())
	assert.Equal(t, 3, results.Skipped())
	assert.Equal(t, []string{DefaultWebhookPath, DefaultWebhookPath}, paths())
}

// countingHandler records the path of each request and leaves the body for the wrapped handler.
func countingHandler(next http.Handler) (http.Handler, func() []string) {
	var lock sync.Mutex
	var paths []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lock.Lock()
		paths = append(paths, r.URL.Path)
		lock.Unlock()
		next.ServeHTTP(w, r)
	})
	return handler, func() []string {
		lock.Lock()
		defer lock.Unlock()
		return append([]string(nil), paths...)
	}
}

func TestEmptyFixtureList(t *testing.T) {
	s := startStubServices(t, nil)
	h, _ := newHarness()

	results, err := Run(context.Background(), h, s.config, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results.Tests)
	assert.True(t, results.OK())
}

func TestRunWritesProgressToHarnessOutput(t *testing.T) {
	s := startStubServices(t, nil)
	h, out := newHarness()

	_, err := Run(context.Background(), h, s.config, DefaultFixtures()[:1], nil, nil)
	require.NoError(t, err)
	assert.Equal(t,
		"🔍 Checking address proxy...\n✅ address proxy is reachable\n"+
			"🔍 Checking n8n workflow...\n✅ n8n workflow is reachable\n"+
			"\n🧪 Running test addresses...\n\n",
		out.String())
}

func TestEmptyInputFieldIsSentAsEmptyString(t *testing.T) {
	webhook, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	s := startStubServices(t, webhook)
	h, _ := newHarness()

	empty, city := "", "Zürich"
	fixtures := []Fixture{{Name: "Empty street", Input: servicedef.AddressInput{Street: &empty, City: &city}}}
	results := RunTestSuite(context.Background(), h, s.config, fixtures, nil, nil)
	assert.Equal(t, 1, results.Passed())

	r := <-requestsCh
	assert.JSONEq(t, `{"street": "", "city": "Zürich"}`, string(r.Body))
}

type debugOutputLogger struct {
	lock   sync.Mutex
	output map[string]framework.CapturedOutput
}

func (d *debugOutputLogger) TestStarted(framework.TestID)         {}
func (d *debugOutputLogger) TestInfo(framework.TestID, string)    {}
func (d *debugOutputLogger) TestError(framework.TestID, error)    {}
func (d *debugOutputLogger) TestSkipped(framework.TestID, string) {}

func (d *debugOutputLogger) TestFinished(id framework.TestID, _ bool, o framework.CapturedOutput) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.output[id.String()] = o
}

func TestDebugOutputNamesTheFixture(t *testing.T) {
	s := startStubServices(t, nil)
	h, _ := newHarness()
	logger := &debugOutputLogger{output: map[string]framework.CapturedOutput{}}

	RunTestSuite(context.Background(), h, s.config, DefaultFixtures()[:1], nil, logger)

	output := logger.output["Correct address"]
	require.NotEmpty(t, output)
	assert.Equal(t, "Sending Correct address to the validation webhook", output[0].Message)
	assert.Contains(t, output[1].Message, "POST "+s.config.WebhookURL())
}
