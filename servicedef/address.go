package servicedef

// AddressRecord is an address as the validation backend sees it. Empty fields are left out of
// the JSON.
type AddressRecord struct {
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
	Company   string `json:"company,omitempty"`
	Street    string `json:"street,omitempty"`
	Street2   string `json:"street2,omitempty"`
	City      string `json:"city,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
}

// Input converts the record to a request body that leaves out the empty fields.
func (a AddressRecord) Input() AddressInput {
	return AddressInput{
		FirstName: nonEmpty(a.FirstName),
		LastName:  nonEmpty(a.LastName),
		Company:   nonEmpty(a.Company),
		Street:    nonEmpty(a.Street),
		Street2:   nonEmpty(a.Street2),
		City:      nonEmpty(a.City),
		Postcode:  nonEmpty(a.Postcode),
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// AddressInput is the body of a validation request as a test sends it. A nil field is left out
// of the JSON, while a field pointing to "" is sent as an empty string.
type AddressInput struct {
	FirstName *string `json:"firstname,omitempty" yaml:"firstname"`
	LastName  *string `json:"lastname,omitempty" yaml:"lastname"`
	Company   *string `json:"company,omitempty" yaml:"company"`
	Street    *string `json:"street,omitempty" yaml:"street"`
	Street2   *string `json:"street2,omitempty" yaml:"street2"`
	City      *string `json:"city,omitempty" yaml:"city"`
	Postcode  *string `json:"postcode,omitempty" yaml:"postcode"`
}

// Quality levels reported by the validation backend, best first.
const (
	QualityDomicileCertified = "DOMICILE_CERTIFIED"
	QualityCertified         = "CERTIFIED"
	QualityVerified          = "VERIFIED"
	QualityUsable            = "USABLE"
	QualityCompromised       = "COMPROMISED"
	QualityUnusable          = "UNUSABLE"
)

// QualityScore maps a quality level to the numeric score the backend reports alongside it.
func QualityScore(level string) int {
	switch level {
	case QualityDomicileCertified, QualityCertified:
		return 100
	case QualityVerified:
		return 90
	case QualityCompromised:
		return 60
	case QualityUsable:
		return 50
	default:
		return 0
	}
}

type Quality struct {
	Level string `json:"level"`
	Score int    `json:"score"`
}

type Correction struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Old     string `json:"old"`
	New     string `json:"new"`
}

// ValidationResult is the response body produced by a validation webhook.
type ValidationResult struct {
	Success        bool          `json:"success"`
	IsValid        bool          `json:"isValid"`
	Quality        *Quality      `json:"quality,omitempty"`
	Corrections    []Correction  `json:"corrections"`
	HasCorrections bool          `json:"hasCorrections"`
	Corrected      AddressRecord `json:"corrected"`
	Error          string        `json:"error,omitempty"`
}
