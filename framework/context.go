package framework

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
)

type environment struct {
	ctx        context.Context
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context tracks the state of one test, or of the root scope of a test run. It is similar to
// *testing.T but can be used outside of the Go test runner.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
}

// Run starts a test run. The action receives the root Context and should call Run on it for
// each test. Every test is isolated: a failure or panic in one of them is recorded in the
// results and the run moves on to the next. A failure in the root action itself is recorded
// under an empty TestID.
func Run(
	ctx context.Context,
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if ctx == nil {
		ctx = context.Background()
	}
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		ctx:        ctx,
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	if c.failed {
		result := TestResult{TestID: c.id, Errors: c.errors}
		env.results.Tests = append(env.results.Tests, result)
		env.results.Failures = append(env.results.Failures, result)
	}
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
	}()

	action(c)
}

// ID returns the identifier of this test.
func (c *Context) ID() TestID {
	return c.id
}

// RequestContext returns the context that requests made by this test should use. It is
// cancelled if the whole run is cancelled.
func (c *Context) RequestContext() context.Context {
	return c.env.ctx
}

// Run runs a subtest and records its result.
func (c *Context) Run(name string, action func(*Context)) {
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		reason := "excluded by filter parameters"
		c.env.results.Tests = append(c.env.results.Tests, TestResult{TestID: id, Skipped: true})
		c.env.testLogger.TestSkipped(id, reason)
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)

	result := TestResult{TestID: id, Errors: c1.errors, Skipped: c1.skipped}
	c.env.results.Tests = append(c.env.results.Tests, result)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
		return
	}
	if c1.failed {
		c.env.results.Failures = append(c.env.results.Failures, result)
	}
	c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
}

// Errorf records a failure without stopping the test.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

// FailNow stops the test immediately. It must be called from the goroutine running the test.
func (c *Context) FailNow() {
	panic(c)
}

// Failed reports whether the test has recorded a failure.
func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Info reports a progress line for the test. Unlike Debug output, it is passed to the test
// logger right away.
func (c *Context) Info(message string, args ...interface{}) {
	c.env.testLogger.TestInfo(c.id, fmt.Sprintf(message, args...))
}

// Debug captures a debug line, which the test logger may show when the test finishes.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}
