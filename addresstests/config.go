package addresstests

import (
	"strings"

	"github.com/alessio/shellescape"
)

const (
	DefaultWorkflowBaseURL = "http://localhost:5678"
	DefaultWebhookPath     = "/webhook/swisspost-validate"
	DefaultProxyBaseURL    = "http://localhost:3000"
	proxyHealthPath        = "/health"
)

// DefaultProxyCommand is the command suggested to the user when the address proxy is not running.
var DefaultProxyCommand = []string{"python", "mcp-http-proxy.py"}

// Config tells the suite where the services under test are.
type Config struct {
	WorkflowBaseURL string
	WebhookPath     string
	ProxyBaseURL    string

	// ProxyCommand is shown to the user, shell-quoted, if the proxy probe fails.
	ProxyCommand []string

	// StrictQuality enables comparing a fixture's expected quality with quality.level.
	StrictQuality bool
}

// DefaultConfig returns a Config for services running locally on their usual ports.
func DefaultConfig() Config {
	return Config{
		WorkflowBaseURL: DefaultWorkflowBaseURL,
		WebhookPath:     DefaultWebhookPath,
		ProxyBaseURL:    DefaultProxyBaseURL,
		ProxyCommand:    append([]string(nil), DefaultProxyCommand...),
	}
}

// WebhookURL is the full URL of the validation webhook.
func (c Config) WebhookURL() string {
	return strings.TrimSuffix(c.WorkflowBaseURL, "/") + c.WebhookPath
}

// ProxyHealthURL is the URL of the address proxy's health resource.
func (c Config) ProxyHealthURL() string {
	return strings.TrimSuffix(c.ProxyBaseURL, "/") + proxyHealthPath
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
