// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of HTTP contract tests.
//
// The general model is:
//
// 1. Before any test runs, the harness checks that the services it depends on are reachable.
// Each check is a Probe: a JSON POST that must return HTTP 200. The first failing probe ends
// the run, since none of the tests could succeed without it.
//
// 2. The tests themselves are independent trials. There is a general notion of a test context
// which is similar to Go's *testing.T, allowing pieces of test logic to be associated with a
// test identifier and to accumulate success/failure results. A failure in one test never
// prevents the next one from running.
//
// 3. Results are collected in order and summarized at the end of the run.
//
// The domain-specific code that knows what is being tested is responsible for providing the
// probes, the request payloads, and a domain-specific test API on top of the test context.
package framework
