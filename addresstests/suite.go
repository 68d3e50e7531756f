package addresstests

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/addrcheck/webhook-contract-tests/framework"
	"github.com/addrcheck/webhook-contract-tests/servicedef"
)

// Run checks the preconditions and, if they hold, runs the fixtures. Progress is written to the
// harness output.
//
// If a precondition fails, no fixture is attempted and the returned error is a
// *framework.ProbeError describing what to start.
func Run(
	ctx context.Context,
	harness *framework.TestHarness,
	cfg Config,
	fixtures []Fixture,
	filter framework.Filter,
	testLogger framework.TestLogger,
) (framework.Results, error) {
	if err := harness.CheckPreconditions(ctx, Preconditions(cfg)...); err != nil {
		return framework.Results{}, err
	}
	fmt.Fprint(harness.Output(), "\n🧪 Running test addresses...\n\n")
	return RunTestSuite(ctx, harness, cfg, fixtures, filter, testLogger), nil
}

// RunTestSuite runs each fixture as an independent test, in order, without checking the
// preconditions first.
func RunTestSuite(
	ctx context.Context,
	harness *framework.TestHarness,
	cfg Config,
	fixtures []Fixture,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	env := &environment{harness: harness, config: cfg}
	return framework.Run(ctx, filter, testLogger, func(c *framework.Context) {
		t := &T{context: c, env: env}
		for _, fx := range fixtures {
			fx := fx
			t.Run(fx.Name, func(t *T) { DoFixtureTest(t, fx) })
		}
	})
}

// DoFixtureTest posts one fixture to the webhook and checks the response against it.
func DoFixtureTest(t *T, fx Fixture) {
	t.Info("Input: %s", describeInput(fx.Input))

	resp := t.Validate(fx.Input)

	t.Info("Status: %s", describeSuccess(resp))
	t.Info("Valid: %s", describeFlag(resp.IsValid.BoolValue()))
	t.Info("Quality: %s", servicedef.Describe(resp.QualityLevel))
	t.Info("Score: %s", servicedef.Describe(resp.QualityScore))
	if n := resp.CorrectionCount.OrElse(0); n > 0 {
		t.Info("Corrections: %d", n)
	}

	for _, m := range CheckExpectations(fx.Expected, resp, t.env.config.StrictQuality) {
		t.Errorf("%s", m)
	}
}

func describeInput(a servicedef.AddressInput) string {
	data, _ := json.Marshal(a)
	return string(data)
}

func describeSuccess(resp servicedef.ValidationResponse) string {
	if resp.Success.BoolValue() {
		return "✅"
	}
	return "❌"
}

func describeFlag(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
