package addresstests

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/addrcheck/webhook-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
	"gopkg.in/yaml.v3"
)

// Fixture is one named webhook request together with what the response should say. Input
// fields that are nil are left out of the request; fields set to "" are sent as empty strings.
type Fixture struct {
	Name     string
	Input    servicedef.AddressInput
	Expected Expectation
}

// Expectation lists the response fields a fixture cares about. Any field left undefined is not
// checked, so a fixture with an empty Expectation passes whenever the webhook answers HTTP 200.
type Expectation struct {
	IsValid        ldvalue.Value          // bool, or null if not checked
	HasCorrections ldvalue.Value          // bool, or null if not checked
	Error          ldvalue.OptionalString // must be a substring of the actual error
	Quality        ldvalue.OptionalString // only checked in strict quality mode
}

// DefaultFixtures returns the standard fixture list in the order the fixtures are run. Each
// call returns a new slice.
func DefaultFixtures() []Fixture {
	return []Fixture{
		{
			Name: "Correct address",
			Input: servicedef.AddressRecord{
				FirstName: "Max",
				LastName:  "Mustermann",
				Company:   "Test AG",
				Street:    "Bahnhofstrasse 1",
				City:      "Zürich",
				Postcode:  "8001",
			}.Input(),
			Expected: Expectation{
				IsValid: ldvalue.Bool(true),
				Quality: ldvalue.NewOptionalString(servicedef.QualityCertified),
			},
		},
		{
			Name: "Postcode and city swapped",
			Input: servicedef.AddressRecord{
				FirstName: "Anna",
				LastName:  "Mustermann",
				Street:    "Hauptstrasse 15",
				City:      "8005",
				Postcode:  "Zürich",
			}.Input(),
			Expected: Expectation{
				IsValid:        ldvalue.Bool(true),
				HasCorrections: ldvalue.Bool(true),
			},
		},
		{
			Name: "House number first",
			Input: servicedef.AddressRecord{
				FirstName: "Peter",
				LastName:  "Schmidt",
				Street:    "94 Pfingstweidstrasse",
				City:      "Zürich",
				Postcode:  "8005",
			}.Input(),
			Expected: Expectation{
				IsValid:        ldvalue.Bool(true),
				HasCorrections: ldvalue.Bool(true),
			},
		},
		{
			Name: "Invalid postcode",
			Input: servicedef.AddressRecord{
				FirstName: "Lisa",
				LastName:  "Weber",
				Street:    "Teststrasse 123",
				City:      "Zürich",
				Postcode:  "123",
			}.Input(),
			Expected: Expectation{
				IsValid: ldvalue.Bool(false),
				Error:   ldvalue.NewOptionalString("PLZ muss 4 Ziffern haben"),
			},
		},
		{
			Name: "Missing fields",
			Input: servicedef.AddressRecord{
				FirstName: "Tom",
				LastName:  "Bauer",
			}.Input(),
			Expected: Expectation{
				IsValid: ldvalue.Bool(false),
				Error:   ldvalue.NewOptionalString("Fehlende Felder"),
			},
		},
	}
}

type fixtureEntry struct {
	Name     string                  `yaml:"name"`
	Input    servicedef.AddressInput `yaml:"input"`
	Expected struct {
		IsValid        *bool   `yaml:"isValid"`
		HasCorrections *bool   `yaml:"hasCorrections"`
		Error          *string `yaml:"error"`
		Quality        *string `yaml:"quality"`
	} `yaml:"expected"`
}

// LoadFixtures reads a fixture list from a YAML file. The file is a sequence of entries with
// the keys name, input and expected; unknown keys are an error.
func LoadFixtures(path string) ([]Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file %s: %w", path, err)
	}
	defer f.Close()

	fixtures, err := DecodeFixtures(f)
	if err != nil {
		return nil, fmt.Errorf("fixture file %s: %w", path, err)
	}
	return fixtures, nil
}

// DecodeFixtures parses a YAML fixture list; see LoadFixtures.
func DecodeFixtures(r io.Reader) ([]Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var entries []fixtureEntry
	if err := dec.Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	out := make([]Fixture, 0, len(entries))
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("fixture %d is missing 'name'", i+1)
		}
		fx := Fixture{Name: name, Input: e.Input}
		if e.Expected.IsValid != nil {
			fx.Expected.IsValid = ldvalue.Bool(*e.Expected.IsValid)
		}
		if e.Expected.HasCorrections != nil {
			fx.Expected.HasCorrections = ldvalue.Bool(*e.Expected.HasCorrections)
		}
		if e.Expected.Error != nil && *e.Expected.Error != "" {
			fx.Expected.Error = ldvalue.NewOptionalString(*e.Expected.Error)
		}
		if e.Expected.Quality != nil {
			fx.Expected.Quality = ldvalue.NewOptionalString(*e.Expected.Quality)
		}
		out = append(out, fx)
	}
	return out, nil
}
