package addresstests

import (
	"fmt"
	"strings"

	"github.com/addrcheck/webhook-contract-tests/servicedef"
)

// Mismatch is a single expectation that a response did not meet.
type Mismatch struct {
	Field    string
	Expected string
	Actual   string
}

func (m Mismatch) Error() string {
	return fmt.Sprintf("expected %s: %s, got: %s", m.Field, m.Expected, m.Actual)
}

// CheckExpectations compares a response with a fixture's expectations and returns every
// mismatch, in a fixed order. The checks are independent and only run for the fields the
// expectation defines:
//
//   - isValid and hasCorrections must equal the expected boolean exactly; a missing field or a
//     field of another JSON type does not match.
//   - the expected error must occur as a substring of the actual error, which must be a string.
//   - in strict mode, the expected quality must equal quality.level.
func CheckExpectations(expected Expectation, actual servicedef.ValidationResponse, strictQuality bool) []Mismatch {
	var mismatches []Mismatch

	if !expected.IsValid.IsNull() && !expected.IsValid.Equal(actual.IsValid) {
		mismatches = append(mismatches, Mismatch{
			Field:    "isValid",
			Expected: expected.IsValid.JSONString(),
			Actual:   describeActual(actual.IsValid.JSONString(), actual.IsValid.IsNull()),
		})
	}

	if !expected.HasCorrections.IsNull() && !expected.HasCorrections.Equal(actual.HasCorrections) {
		mismatches = append(mismatches, Mismatch{
			Field:    "hasCorrections",
			Expected: expected.HasCorrections.JSONString(),
			Actual:   describeActual(actual.HasCorrections.JSONString(), actual.HasCorrections.IsNull()),
		})
	}

	if expected.Error.IsDefined() {
		want := expected.Error.StringValue()
		if !actual.Error.IsString() || !strings.Contains(actual.Error.StringValue(), want) {
			mismatches = append(mismatches, Mismatch{
				Field:    "error",
				Expected: want,
				Actual:   describeActual(servicedef.Describe(actual.Error), actual.Error.IsNull()),
			})
		}
	}

	if strictQuality && expected.Quality.IsDefined() {
		want := expected.Quality.StringValue()
		if !actual.QualityLevel.IsString() || actual.QualityLevel.StringValue() != want {
			mismatches = append(mismatches, Mismatch{
				Field:    "quality",
				Expected: want,
				Actual:   describeActual(servicedef.Describe(actual.QualityLevel), actual.QualityLevel.IsNull()),
			})
		}
	}

	return mismatches
}

func describeActual(s string, absent bool) string {
	if absent {
		return "<absent>"
	}
	return s
}
