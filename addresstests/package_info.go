// Package addresstests contains the address validation contract tests and their supporting API.
//
// A run has two phases. First the preconditions: the address proxy and the validation
// webhook must both answer HTTP 200, or the run stops with guidance on what to start. Then
// each fixture is posted to the webhook and the response is compared with the fixture's
// expectations; fixtures are independent, and a failure in one does not stop the others.
//
// Other programs can reuse the suite through Run, RunTestSuite and DefaultFixtures.
// Infrastructure that is not specific to address validation is in the framework package.
package addresstests
