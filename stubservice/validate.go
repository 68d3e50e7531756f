package stubservice

import (
	"regexp"
	"strings"

	"github.com/addrcheck/webhook-contract-tests/servicedef"
)

const (
	errMissingFields   = "Fehlende Felder"
	errInvalidPostcode = "PLZ muss 4 Ziffern haben"
)

var (
	postcodePattern    = regexp.MustCompile(`^\d{4}$`)
	leadingHouseNumber = regexp.MustCompile(`^(\d+[a-zA-Z]?(?:[/-]\d+[a-zA-Z]?)?)\s+(.+)$`)
	commaInStreet      = regexp.MustCompile(`,\s*`)
)

func isPostcode(s string) bool {
	return postcodePattern.MatchString(strings.TrimSpace(s))
}

// Validate simulates the validation workflow for an address without calling any postal API.
//
// It recognizes the same input mistakes as the real workflow (missing fields, postcode and
// city swapped, house number before the street name, malformed postcode) and reports every
// address that survives those checks as certified.
func Validate(in servicedef.AddressRecord) servicedef.ValidationResult {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"street", in.Street},
		{"city", in.City},
		{"postcode", in.Postcode},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return servicedef.ValidationResult{
			Corrections: []servicedef.Correction{},
			Corrected:   in,
			Error:       errMissingFields + ": " + strings.Join(missing, ", "),
		}
	}

	out := servicedef.AddressRecord{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Company:   in.Company,
		Street:    strings.TrimSpace(in.Street),
		Street2:   in.Street2,
		City:      strings.TrimSpace(in.City),
		Postcode:  strings.TrimSpace(in.Postcode),
	}
	corrections := []servicedef.Correction{}

	if s := commaInStreet.ReplaceAllString(out.Street, " "); s != out.Street {
		corrections = append(corrections, servicedef.Correction{
			Type:    "comma_removed_from_street",
			Message: "Removed comma from street",
			Old:     out.Street,
			New:     s,
		})
		out.Street = s
	}

	if m := leadingHouseNumber.FindStringSubmatch(out.Street); m != nil {
		moved := m[2] + " " + m[1]
		corrections = append(corrections, servicedef.Correction{
			Type:    "house_number_moved_to_end",
			Message: "Moved house number from the start of the street to the end",
			Old:     out.Street,
			New:     moved,
		})
		out.Street = moved
	}

	if !isPostcode(out.Postcode) && isPostcode(out.City) {
		corrections = append(corrections, servicedef.Correction{
			Type:    "postcode_city_swapped",
			Message: "Postcode and city were swapped",
			Old:     out.Postcode + " " + out.City,
			New:     out.City + " " + out.Postcode,
		})
		out.City, out.Postcode = out.Postcode, out.City
	}

	result := servicedef.ValidationResult{
		Success:        true,
		Corrections:    corrections,
		HasCorrections: len(corrections) > 0,
		Corrected:      out,
	}
	if !isPostcode(out.Postcode) {
		result.Success = false
		result.Error = errInvalidPostcode
		result.Quality = &servicedef.Quality{
			Level: servicedef.QualityUnusable,
			Score: servicedef.QualityScore(servicedef.QualityUnusable),
		}
		return result
	}
	result.IsValid = true
	result.Quality = &servicedef.Quality{
		Level: servicedef.QualityCertified,
		Score: servicedef.QualityScore(servicedef.QualityCertified),
	}
	return result
}
