package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/addrcheck/webhook-contract-tests/addresstests"
	"github.com/addrcheck/webhook-contract-tests/framework"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	keyWorkflowURL   = "n8n-url"
	keyWebhookPath   = "webhook-path"
	keyProxyURL      = "proxy-url"
	keyProxyCommand  = "proxy-command"
	keyFixtures      = "fixtures"
	keyTimeout       = "timeout"
	keyStrictQuality = "strict-quality"
	keyExitCode      = "exit-code"
	keyNoColor       = "no-color"
	keyDebug         = "debug"
	keyDebugAll      = "debug-all"
)

var envBindings = map[string]string{
	keyWorkflowURL:  "N8N_BASE_URL",
	keyWebhookPath:  "N8N_WEBHOOK_PATH",
	keyProxyURL:     "ADDRESS_PROXY_URL",
	keyProxyCommand: "ADDRESS_PROXY_COMMAND",
	keyFixtures:     "ADDRESS_FIXTURES",
}

type commandParams struct {
	suite        addresstests.Config
	fixturesPath string
	timeout      time.Duration
	filters      framework.RegexFilters
	failExitCode bool
	noColor      bool
	debug        bool
	debugAll     bool
}

// Read parses the command line, then fills in anything not given there from the environment
// (including a .env file in the working directory), then from the optional config file.
func (c *commandParams) Read(args []string, stderr io.Writer) bool {
	fs := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage of %s:\n", args[0])
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "config file (yaml, json or toml)")
	fs.String(keyWorkflowURL, addresstests.DefaultWorkflowBaseURL, "base URL of the n8n instance")
	fs.String(keyWebhookPath, addresstests.DefaultWebhookPath, "path of the validation webhook")
	fs.String(keyProxyURL, addresstests.DefaultProxyBaseURL, "base URL of the address proxy")
	fs.StringSlice(keyProxyCommand, addresstests.DefaultProxyCommand, "command that starts the address proxy, shown if it is not running")
	fs.String(keyFixtures, "", "YAML file with fixtures to run instead of the default ones")
	fs.Duration(keyTimeout, 0, "timeout for each HTTP request (0 means no timeout)")
	fs.Bool(keyStrictQuality, false, "also compare each fixture's expected quality with the reported quality level")
	fs.Bool(keyExitCode, false, "exit with status 1 if a precondition or any test fails")
	fs.Bool(keyNoColor, false, "disable colored output")
	fs.Bool(keyDebug, false, "enable debug logging for failed tests")
	fs.Bool(keyDebugAll, false, "enable debug logging for all tests")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")

	if err := fs.Parse(args[1:]); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(stderr, err)
			fs.Usage()
		}
		return false
	}

	v, err := newViper(fs, *configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return false
	}

	c.suite = addresstests.Config{
		WorkflowBaseURL: strings.TrimSpace(v.GetString(keyWorkflowURL)),
		WebhookPath:     strings.TrimSpace(v.GetString(keyWebhookPath)),
		ProxyBaseURL:    strings.TrimSpace(v.GetString(keyProxyURL)),
		ProxyCommand:    v.GetStringSlice(keyProxyCommand),
		StrictQuality:   v.GetBool(keyStrictQuality),
	}
	c.fixturesPath = strings.TrimSpace(v.GetString(keyFixtures))
	c.timeout = v.GetDuration(keyTimeout)
	c.failExitCode = v.GetBool(keyExitCode)
	c.noColor = v.GetBool(keyNoColor)
	c.debug = v.GetBool(keyDebug)
	c.debugAll = v.GetBool(keyDebugAll)

	if c.suite.WorkflowBaseURL == "" {
		fmt.Fprintf(stderr, "--%s must not be empty\n", keyWorkflowURL)
		return false
	}
	if !strings.HasPrefix(c.suite.WebhookPath, "/") {
		c.suite.WebhookPath = "/" + c.suite.WebhookPath
	}
	if c.timeout < 0 {
		fmt.Fprintf(stderr, "--%s must not be negative\n", keyTimeout)
		return false
	}
	return true
}

func newViper(fs *pflag.FlagSet, configPath string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}
	return v, nil
}

// loadFixtures returns the fixtures selected by the parameters.
func (c *commandParams) loadFixtures() ([]addresstests.Fixture, error) {
	if c.fixturesPath == "" {
		return addresstests.DefaultFixtures(), nil
	}
	return addresstests.LoadFixtures(c.fixturesPath)
}
