package framework

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
)

// Probe describes a reachability check for one dependency of the service under test.
//
// A probe succeeds if a POST of Payload to URL returns HTTP 200. Remediation is printed to the
// user if it fails.
type Probe struct {
	Name        string
	URL         string
	Payload     interface{}
	Remediation string
}

// ProbeError is returned by CheckPreconditions when a probe fails.
type ProbeError struct {
	Probe      Probe
	StatusCode int // 0 if the request did not get a response
	Err        error
}

func (e *ProbeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s is not reachable at %s: %s", e.Probe.Name, e.Probe.URL, e.Err)
	}
	return fmt.Sprintf("%s is not reachable at %s: HTTP %d", e.Probe.Name, e.Probe.URL, e.StatusCode)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// TestHarness holds the state shared by every test in a run: the client for talking to the
// service under test, the harness-level debug logger, and the writer for progress output.
type TestHarness struct {
	client *JSONClient
	logger Logger
	output io.Writer
}

// NewTestHarness creates a TestHarness. A nil debugLogger is replaced with NullLogger, and a
// nil output discards progress messages.
func NewTestHarness(client *JSONClient, debugLogger Logger, output io.Writer) *TestHarness {
	if client == nil {
		client = NewJSONClient(nil)
	}
	if debugLogger == nil {
		debugLogger = NullLogger()
	}
	if output == nil {
		output = ioutil.Discard
	}
	return &TestHarness{
		client: client,
		logger: debugLogger,
		output: output,
	}
}

// Output returns the writer that progress messages are written to.
func (h *TestHarness) Output() io.Writer {
	return h.output
}

// PostJSON sends a JSON request to the service under test, logging the exchange to logger (or
// to the harness debug logger if logger is nil).
func (h *TestHarness) PostJSON(ctx context.Context, url string, payload interface{}, logger Logger) (JSONResponse, error) {
	if logger == nil {
		logger = h.logger
	}
	logger.Printf("POST %s", url)
	resp, err := h.client.PostJSON(ctx, url, payload)
	if err != nil {
		logger.Printf("Request failed: %s", err)
		return resp, err
	}
	logger.Printf("Received HTTP %d: %s", resp.StatusCode, resp)
	return resp, nil
}

// RunProbe performs a single reachability check and reports whether it succeeded. Transport
// errors are reported as failure rather than returned.
func (h *TestHarness) RunProbe(ctx context.Context, p Probe) bool {
	return h.runProbe(ctx, p) == nil
}

func (h *TestHarness) runProbe(ctx context.Context, p Probe) *ProbeError {
	fmt.Fprintf(h.output, "🔍 Checking %s...\n", p.Name)

	payload := p.Payload
	if payload == nil {
		payload = struct{}{}
	}
	resp, err := h.PostJSON(ctx, p.URL, payload, nil)
	if err != nil {
		fmt.Fprintf(h.output, "❌ %s error: %s\n", p.Name, err)
		return &ProbeError{Probe: p, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(h.output, "❌ %s not reachable: HTTP %d %s\n", p.Name, resp.StatusCode, resp)
		return &ProbeError{Probe: p, StatusCode: resp.StatusCode}
	}
	fmt.Fprintf(h.output, "✅ %s is reachable\n", p.Name)
	return nil
}

// CheckPreconditions runs the probes in order and stops at the first one that fails, returning
// a *ProbeError for it. No further probes are attempted after a failure.
func (h *TestHarness) CheckPreconditions(ctx context.Context, probes ...Probe) error {
	for _, p := range probes {
		if perr := h.runProbe(ctx, p); perr != nil {
			return perr
		}
	}
	return nil
}
