package addresstests

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func TestDefaultFixturesOrder(t *testing.T) {
	var names []string
	for _, fx := range DefaultFixtures() {
		names = append(names, fx.Name)
	}
	assert.Equal(t, []string{
		"Correct address",
		"Postcode and city swapped",
		"House number first",
		"Invalid postcode",
		"Missing fields",
	}, names)
}

func TestDefaultFixturesReturnsNewSlice(t *testing.T) {
	a := DefaultFixtures()
	a[0].Name = "changed"
	*a[0].Input.City = "Bern"
	b := DefaultFixtures()
	assert.Equal(t, "Correct address", b[0].Name)
	assert.Equal(t, "Zürich", *b[0].Input.City)
}

func TestDefaultFixtureExpectations(t *testing.T) {
	fixtures := DefaultFixtures()

	assert.True(t, fixtures[0].Expected.IsValid.Equal(ldvalue.Bool(true)))
	assert.True(t, fixtures[0].Expected.HasCorrections.IsNull())
	assert.Equal(t, "CERTIFIED", fixtures[0].Expected.Quality.StringValue())

	assert.Equal(t, "8005", *fixtures[1].Input.City)
	assert.Equal(t, "Zürich", *fixtures[1].Input.Postcode)

	assert.Equal(t, "PLZ muss 4 Ziffern haben", fixtures[3].Expected.Error.StringValue())

	assert.Nil(t, fixtures[4].Input.Street)
	assert.Nil(t, fixtures[4].Input.City)
	assert.Nil(t, fixtures[4].Input.Postcode)
	assert.Equal(t, "Fehlende Felder", fixtures[4].Expected.Error.StringValue())
}

func TestDecodeFixtures(t *testing.T) {
	fixtures, err := DecodeFixtures(strings.NewReader(`
- name: Street only
  input:
    firstname: Max
    street: Bahnhofstrasse 1
  expected:
    isValid: false
    error: Fehlende Felder
- name: Anything goes
  input:
    city: Bern
    postcode: "3011"
  expected: {}
- name: Lower quality
  input:
    postcode: "3011"
  expected:
    hasCorrections: false
    quality: USABLE
`))
	require.NoError(t, err)
	require.Len(t, fixtures, 3)

	assert.Equal(t, "Street only", fixtures[0].Name)
	assert.Equal(t, "Max", *fixtures[0].Input.FirstName)
	assert.Equal(t, "Bahnhofstrasse 1", *fixtures[0].Input.Street)
	assert.Nil(t, fixtures[0].Input.City)
	assert.True(t, fixtures[0].Expected.IsValid.Equal(ldvalue.Bool(false)))
	assert.Equal(t, "Fehlende Felder", fixtures[0].Expected.Error.StringValue())
	assert.True(t, fixtures[0].Expected.HasCorrections.IsNull())

	assert.Equal(t, Expectation{}, fixtures[1].Expected)
	assert.Equal(t, "3011", *fixtures[1].Input.Postcode)

	assert.True(t, fixtures[2].Expected.IsValid.IsNull())
	assert.True(t, fixtures[2].Expected.HasCorrections.Equal(ldvalue.Bool(false)))
	assert.Equal(t, "USABLE", fixtures[2].Expected.Quality.StringValue())
}

func TestDecodeFixturesKeepsEmptyFields(t *testing.T) {
	fixtures, err := DecodeFixtures(strings.NewReader(`
- name: Empty street
  input:
    street: ""
    city: Zürich
    postcode: "8001"
`))
	require.NoError(t, err)
	require.Len(t, fixtures, 1)

	in := fixtures[0].Input
	require.NotNil(t, in.Street)
	assert.Equal(t, "", *in.Street)
	assert.Nil(t, in.FirstName)

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"street": "", "city": "Zürich", "postcode": "8001"}`, string(data))
}

func TestDefaultFixtureInputLeavesOutEmptyFields(t *testing.T) {
	data, err := json.Marshal(DefaultFixtures()[4].Input)
	require.NoError(t, err)
	assert.JSONEq(t, `{"firstname": "Tom", "lastname": "Bauer"}`, string(data))
}

func TestDecodeFixturesRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeFixtures(strings.NewReader(`
- name: Typo
  input:
    zip: "8001"
`))
	assert.Error(t, err)
}

func TestDecodeFixturesRequiresName(t *testing.T) {
	_, err := DecodeFixtures(strings.NewReader(`
- input:
    city: Bern
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing 'name'")
}

func TestDecodeFixturesEmptyDocument(t *testing.T) {
	fixtures, err := DecodeFixtures(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fixtures)
}

func TestLoadFixturesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: One\n  input:\n    city: Bern\n"), 0o600))

	fixtures, err := LoadFixtures(path)
	require.NoError(t, err)
	require.Len(t, fixtures, 1)
	assert.Equal(t, "One", fixtures[0].Name)
}

func TestLoadFixturesMissingFile(t *testing.T) {
	_, err := LoadFixtures(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}
