package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/addrcheck/webhook-contract-tests/framework"

	"github.com/fatih/color"
)

type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	skipColor = color.New(color.FgYellow)
)

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Fprintf(c.Out, "📋 Test: %s\n", id)
}

func (c *ConsoleTestLogger) TestInfo(id framework.TestID, message string) {
	fmt.Fprintf(c.Out, "   %s\n", message)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		failColor.Fprintf(c.Out, "   ❌ %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		failColor.Fprintln(c.Out, "   ❌ Test failed")
	} else {
		passColor.Fprintln(c.Out, "   ✅ Test passed")
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
	fmt.Fprintln(c.Out)
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		skipColor.Fprintf(c.Out, "   ⏭  Skipped\n\n")
	} else {
		skipColor.Fprintf(c.Out, "   ⏭  Skipped (%s)\n\n", reason)
	}
}
