package servicedef

import (
	"github.com/tidwall/gjson"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ValidationResponse is the view of a webhook response body that the tests compare against.
//
// The webhook is not under our control, so every field is optional. A field that was missing
// from the body is null (the zero value of ldvalue.Value); a field that was present keeps
// whatever JSON type it had, so that a string "true" does not compare equal to the boolean true.
type ValidationResponse struct {
	Success         ldvalue.Value
	IsValid         ldvalue.Value
	HasCorrections  ldvalue.Value
	QualityLevel    ldvalue.Value
	QualityScore    ldvalue.Value
	CorrectionCount ldvalue.OptionalInt
	Error           ldvalue.Value
}

// ParseValidationResponse extracts the fields of interest from a response body. A body that is
// not valid JSON yields a response with every field absent.
func ParseValidationResponse(body []byte) ValidationResponse {
	if !gjson.ValidBytes(body) {
		return ValidationResponse{}
	}
	resp := ValidationResponse{
		Success:        field(body, "success"),
		IsValid:        field(body, "isValid"),
		HasCorrections: field(body, "hasCorrections"),
		QualityLevel:   field(body, "quality.level"),
		QualityScore:   field(body, "quality.score"),
		Error:          field(body, "error"),
	}
	if c := gjson.GetBytes(body, "corrections"); c.IsArray() {
		resp.CorrectionCount = ldvalue.NewOptionalInt(len(c.Array()))
	}
	return resp
}

func field(body []byte, path string) ldvalue.Value {
	r := gjson.GetBytes(body, path)
	if !r.Exists() {
		return ldvalue.Null()
	}
	return ldvalue.Parse([]byte(r.Raw))
}

// Describe formats a possibly absent value for log output.
func Describe(v ldvalue.Value) string {
	if v.IsNull() {
		return "N/A"
	}
	if v.IsString() {
		return v.StringValue()
	}
	return v.JSONString()
}
