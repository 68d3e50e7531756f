package framework

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
)

// Results is the outcome of a test run, in the order the tests were run.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

// OK is true if no test failed.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Failed returns the number of failed tests.
func (r Results) Failed() int {
	return len(r.Failures)
}

// Skipped returns the number of tests that were skipped, whether by filter or by the test.
func (r Results) Skipped() int {
	n := 0
	for _, t := range r.Tests {
		if t.Skipped {
			n++
		}
	}
	return n
}

// Passed returns the number of tests that ran and did not fail.
func (r Results) Passed() int {
	return len(r.Tests) - r.Skipped() - r.Failed()
}

// SuccessRate returns the percentage of executed tests that passed, rounded to the nearest
// integer. If no tests were executed the result is NaN.
func (r Results) SuccessRate() float64 {
	passed, failed := r.Passed(), r.Failed()
	return math.Round(float64(passed) / float64(passed+failed) * 100)
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// TestFailure is one error reported by a failed test.
type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

// PrintResults writes the end-of-run summary.
func PrintResults(out io.Writer, r Results) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	fmt.Fprintln(out, "📊 Test summary:")
	green.Fprintf(out, "   ✅ Passed: %d\n", r.Passed())
	red.Fprintf(out, "   ❌ Failed: %d\n", r.Failed())
	if skipped := r.Skipped(); skipped > 0 {
		yellow.Fprintf(out, "   ⏭  Skipped: %d\n", skipped)
	}
	fmt.Fprintf(out, "   📈 Success rate: %.0f%%\n", r.SuccessRate())

	if r.OK() {
		green.Fprintln(out, "\n🎉 All tests passed!")
		return
	}
	yellow.Fprintln(out, "\n⚠️  Some tests failed. Check the workflow and proxy configuration.")
	for _, f := range r.Failures {
		for _, err := range f.Errors {
			printIndented(out, "  ", TestFailure{ID: f.TestID, Err: err}.Error())
		}
	}
}

func printIndented(out io.Writer, indent, text string) {
	for i, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if i > 0 {
			line = "  " + line
		}
		fmt.Fprintf(out, "%s%s\n", indent, line)
	}
}
