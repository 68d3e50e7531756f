package framework

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// JSONResponse is what the service under test sent back for one JSON request.
//
// Body always holds the raw response bytes. If they were valid JSON, IsJSON is true and JSON
// holds the decoded value; otherwise JSON is null and callers should treat Body as plain text.
type JSONResponse struct {
	StatusCode int
	Body       []byte
	JSON       ldvalue.Value
	IsJSON     bool
}

// String returns the body in a form suitable for log output.
func (r JSONResponse) String() string {
	if r.IsJSON {
		return r.JSON.JSONString()
	}
	return string(r.Body)
}

// JSONClient sends JSON POST requests to the service under test.
type JSONClient struct {
	httpClient *http.Client
}

// NewJSONClient creates a JSONClient. If httpClient is nil, http.DefaultClient is used, which
// has no request timeout.
func NewJSONClient(httpClient *http.Client) *JSONClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &JSONClient{httpClient: httpClient}
}

// PostJSON marshals payload, POSTs it to targetURL with a JSON content type, and returns the
// status code and body.
//
// Transport failures such as a refused connection are returned as errors. A non-2xx status is
// not an error; it is up to the caller to decide what the status means.
func (c *JSONClient) PostJSON(ctx context.Context, targetURL string, payload interface{}) (JSONResponse, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return JSONResponse{}, fmt.Errorf("invalid URL %q: %w", targetURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return JSONResponse{}, fmt.Errorf("unsupported URL scheme %q in %s", u.Scheme, targetURL)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return JSONResponse{}, err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(data))
	if err != nil {
		return JSONResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = int64(len(data))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return JSONResponse{}, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return JSONResponse{}, fmt.Errorf("error reading response from %s: %w", targetURL, err)
	}

	result := JSONResponse{StatusCode: resp.StatusCode, Body: body, JSON: ldvalue.Null()}
	if json.Valid(body) {
		result.JSON = ldvalue.Parse(body)
		result.IsJSON = true
	}
	return result, nil
}
