package models

// EntityType is the closed enumeration of PII categories veil can detect.
type EntityType string

const (
	EntityPersonName        EntityType = "PERSON_NAME"
	EntityEmail             EntityType = "EMAIL"
	EntityPhone             EntityType = "PHONE"
	EntityAddress           EntityType = "ADDRESS"
	EntityLocation          EntityType = "LOCATION"
	EntityOrganization      EntityType = "ORGANIZATION"
	EntityDateTime          EntityType = "DATE_TIME"
	EntityCreditCard        EntityType = "CREDIT_CARD"
	EntitySSN               EntityType = "SSN"
	EntityBankAccount       EntityType = "BANK_ACCOUNT"
	EntityAccountNumber     EntityType = "ACCOUNT_NUMBER"
	EntityAccountID         EntityType = "ACCOUNT_ID"
	EntityEmployeeID        EntityType = "EMPLOYEE_ID"
	EntityApplicationNumber EntityType = "APPLICATION_NUMBER"
	EntityZipCode           EntityType = "ZIP_CODE"
	EntityMedicalID         EntityType = "MEDICAL_ID"
	EntityFinancialAmount   EntityType = "FINANCIAL_AMOUNT"
	EntityIPAddress         EntityType = "IP_ADDRESS"
	EntityURL               EntityType = "URL"
	EntityPassport          EntityType = "PASSPORT"
	EntityDriverLicense     EntityType = "DRIVER_LICENSE"
	EntityFacility          EntityType = "FACILITY_NAME"
	EntityEvent             EntityType = "EVENT_NAME"
	EntityLegalDocument     EntityType = "LEGAL_DOCUMENT"
	EntityNationalityGroup  EntityType = "NATIONALITY_GROUP"
	EntityLanguage          EntityType = "LANGUAGE_NAME"
	EntityArtwork           EntityType = "ARTWORK_TITLE"
	EntityGeneric           EntityType = "GENERIC"
)

var humanLabels = map[EntityType]string{
	EntityPersonName:        "Person Name",
	EntityEmail:             "Email Address",
	EntityPhone:             "Phone Number",
	EntityAddress:           "Physical Address",
	EntityLocation:          "Location",
	EntityOrganization:      "Organization",
	EntityDateTime:          "Date/Time",
	EntityCreditCard:        "Credit Card",
	EntitySSN:               "Social Security Number",
	EntityBankAccount:       "Bank Account",
	EntityAccountNumber:     "Account Number",
	EntityAccountID:         "Account ID",
	EntityEmployeeID:        "Employee ID",
	EntityApplicationNumber: "Application Number",
	EntityZipCode:           "ZIP Code",
	EntityMedicalID:         "Medical ID",
	EntityFinancialAmount:   "Financial Amount",
	EntityIPAddress:         "IP Address",
	EntityURL:               "Website URL",
	EntityPassport:          "Passport Number",
	EntityDriverLicense:     "Driver License",
	EntityFacility:          "Facility",
	EntityEvent:             "Event",
	EntityLegalDocument:     "Legal Document",
	EntityNationalityGroup:  "Nationality/Group",
	EntityLanguage:          "Language",
	EntityArtwork:           "Artwork Title",
	EntityGeneric:           "Generic",
}

// pseudonymPrefixes are the semantic placeholder prefixes used in
// pseudonymize mode. Kept short and LLM-friendly so a downstream model
// treats the placeholders as opaque tokens.
var pseudonymPrefixes = map[EntityType]string{
	EntityPersonName:        "name",
	EntityEmail:             "email",
	EntityPhone:             "mobNo",
	EntityAddress:           "physical_address",
	EntityLocation:          "location",
	EntityOrganization:      "company",
	EntityDateTime:          "date",
	EntityCreditCard:        "credit_card",
	EntitySSN:               "ssn",
	EntityBankAccount:       "bank_account",
	EntityAccountNumber:     "account_number",
	EntityAccountID:         "account_id",
	EntityEmployeeID:        "employee_id",
	EntityApplicationNumber: "application_number",
	EntityZipCode:           "zipcode",
	EntityMedicalID:         "medical_id",
	EntityFinancialAmount:   "amount",
	EntityIPAddress:         "ip_address",
	EntityURL:               "url",
	EntityPassport:          "passport",
	EntityDriverLicense:     "driver_license",
	EntityFacility:          "facility",
	EntityEvent:             "event",
	EntityLegalDocument:     "document",
	EntityNationalityGroup:  "group",
	EntityLanguage:          "language",
	EntityArtwork:           "artwork",
	EntityGeneric:           "generic",
}

// structuredTypes have a rigid wire format and a structural validator, so a
// pattern match for one of these carries more confidence than a generic
// model-detector category. Used as the overlap-resolution tie-break.
var structuredTypes = map[EntityType]bool{
	EntityEmail:         true,
	EntityPhone:         true,
	EntityCreditCard:    true,
	EntitySSN:           true,
	EntityZipCode:       true,
	EntityAccountID:     true,
	EntityIPAddress:     true,
	EntityURL:           true,
	EntityPassport:      true,
	EntityDriverLicense: true,
	EntityMedicalID:     true,
}

// HumanLabel returns the human-readable label for the entity type,
// e.g. "Person Name". Used by replace mode, preview and stats.
func (t EntityType) HumanLabel() string {
	if label, ok := humanLabels[t]; ok {
		return label
	}
	return string(t)
}

// PseudonymPrefix returns the placeholder prefix used in pseudonymize mode.
func (t EntityType) PseudonymPrefix() string {
	if prefix, ok := pseudonymPrefixes[t]; ok {
		return prefix
	}
	return pseudonymPrefixes[EntityGeneric]
}

// Structured reports whether the type is validated structurally.
func (t EntityType) Structured() bool {
	return structuredTypes[t]
}

// Span is a half-open character offset range into the source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlap returns the number of characters shared with other, 0 if disjoint.
func (s Span) Overlap(other Span) int {
	start := s.Start
	if other.Start > start {
		start = other.Start
	}
	end := s.End
	if other.End < end {
		end = other.End
	}
	if end <= start {
		return 0
	}
	return end - start
}

// DetectorSource identifies which detector produced a candidate.
type DetectorSource string

const (
	SourcePattern DetectorSource = "pattern"
	SourceContext DetectorSource = "context"
	SourceModel   DetectorSource = "model"
)

// Candidate is an unvalidated detector output. Priority is the detector
// confidence rank used to break overlap-resolution ties: context-label
// matches rank above structured pattern matches, which rank above model
// detections, which rank above loose structural patterns.
type Candidate struct {
	Span
	Type     EntityType
	Text     string
	Source   DetectorSource
	Priority int
}

// ResolvedEntity is a validated, deduplicated detection ready for
// transformation. The resolved set for one text is always disjoint.
type ResolvedEntity struct {
	Span
	Type EntityType
	Text string
}
