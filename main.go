package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/addrcheck/webhook-contract-tests/addresstests"
	"github.com/addrcheck/webhook-contract-tests/framework"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var params commandParams
	if !params.Read(args, stderr) {
		return 1
	}
	if params.noColor {
		color.NoColor = true
	}

	fixtures, err := params.loadFixtures()
	if err != nil {
		fmt.Fprintf(stderr, "Invalid parameters: %s\n", err)
		return 1
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(stdout, "", log.LstdFlags)
	}

	client := framework.NewJSONClient(&http.Client{Timeout: params.timeout})
	harness := framework.NewTestHarness(client, mainDebugLogger, stdout)

	fmt.Fprintln(stdout, "🚀 Starting address validation workflow tests")
	fmt.Fprintln(stdout)
	framework.PrintFilterDescription(stdout, params.filters)

	testLogger := &ConsoleTestLogger{
		Out:                  stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results, err := runSuite(ctx, harness, params, fixtures, testLogger)
	if err != nil {
		var probeErr *framework.ProbeError
		if errors.As(err, &probeErr) {
			fmt.Fprintln(stdout)
			color.New(color.FgRed).Fprintf(stdout, "❌ %s\n", probeErr.Probe.Remediation)
		} else {
			fmt.Fprintf(stderr, "Unexpected error: %s\n", err)
		}
		return params.exitCode(false)
	}

	framework.PrintResults(stdout, results)
	return params.exitCode(results.OK())
}

// runSuite turns a panic escaping the suite into an error, so that it is reported the same way
// as any other unexpected failure.
func runSuite(
	ctx context.Context,
	harness *framework.TestHarness,
	params commandParams,
	fixtures []addresstests.Fixture,
	testLogger framework.TestLogger,
) (results framework.Results, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	return addresstests.Run(ctx, harness, params.suite, fixtures, params.filters.AsFilter, testLogger)
}

func (c *commandParams) exitCode(ok bool) int {
	if ok || !c.failExitCode {
		return 0
	}
	return 1
}
