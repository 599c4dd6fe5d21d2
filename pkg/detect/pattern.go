// Package detect produces candidate PII spans from two independent
// detectors, a regex/rule pattern scanner and an external NER model, and
// resolves their overlapping output into a disjoint entity set.
package detect

import (
	"regexp"
	"strings"

	"github.com/getveil/veil/internal"
	"github.com/getveil/veil/pkg/models"
	"github.com/getveil/veil/pkg/validate"
)

var log = internal.GetLogger()

// Detector confidence ranks. Context-label matches are authoritative for
// their span; structured regex matches beat model output; the loose
// title-case fallbacks rank last.
const (
	priorityContext    = 4
	priorityStructured = 3
	priorityModel      = 2
	priorityStructural = 1
)

type patternRule struct {
	entityType models.EntityType
	re         *regexp.Regexp
}

// patternRules is evaluated in a fixed priority order per type: specific,
// heavily structured formats first so a generic rule cannot consume a
// substring a more specific rule would match whole. Credit card must run
// before phone (16 digits vs 10), SSN before bare number forms.
var patternRules = []patternRule{
	{models.EntityCreditCard, regexp.MustCompile(`(?i)\b(?:4\d{3}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}|4\d{15}|5[1-5]\d{2}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}|5[1-5]\d{14}|3[47]\d{2}[\s-]?\d{6}[\s-]?\d{5}|3[47]\d{13}|3[0568]\d{2}[\s-]?\d{6}[\s-]?\d{4}|3[0568]\d{12}|6(?:011|5\d{2})[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}|6(?:011|5\d{2})\d{12})\b`)},
	{models.EntitySSN, regexp.MustCompile(`\b\d{3}[-.\s]?\d{2}[-.\s]?\d{4}\b`)},
	{models.EntityEmail, regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
	{models.EntityPhone, regexp.MustCompile(`(?i)(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}(?:\s?(?:ext|extension|x)\.?\s?\d{1,5})?\b`)},
	{models.EntityAccountID, regexp.MustCompile(`(?i)\b(?:ACC|ACCT|ID|REF|CASE|ORDER|TICKET|REQ)[-.\s#:]*\d{4,}(?:-\d+)*\b`)},
	{models.EntityZipCode, regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)},
	{models.EntityIPAddress, regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`)},
	{models.EntityURL, regexp.MustCompile(`(?i)https?://(?:[-\w.])+(?:[:\d]+)?(?:/(?:[\w/_.])*(?:\?(?:[\w&=%.])*)?(?:#(?:[\w.])*)?)?`)},
	{models.EntityPassport, regexp.MustCompile(`\b[A-Z]{1,2}\d{6,9}\b`)},
	{models.EntityDriverLicense, regexp.MustCompile(`\b[A-Z]{1,2}[-.\s]?\d{6,8}\b`)},
	{models.EntityMedicalID, regexp.MustCompile(`(?i)\b(?:MRN|MR|PATIENT)[\s#:-]*\d{6,12}\b`)},
	{models.EntityAddress, regexp.MustCompile(`(?i)\b\d+\s+(?:[A-Z][a-z]+\s+)*(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Court|Ct|Place|Pl|Way|Circle|Cir|Parkway|Pkwy)\.?\b`)},
}

type contextRule struct {
	entityType models.EntityType
	re         *regexp.Regexp
}

// contextRules reclassify labeled key-value fields. The field label and its
// value are bound in a single anchored match, so "Account Number: 9876543210"
// yields an account number even though the bare digits would otherwise pass
// for a phone. Capture group 1 is the value span.
var contextRules = []contextRule{
	{models.EntityAccountNumber, regexp.MustCompile(`(?i)Account\s+Number:\s*(\d{8,17})`)},
	{models.EntityEmployeeID, regexp.MustCompile(`(?i)Employee\s+ID:\s*(\w{3,15})`)},
	{models.EntityApplicationNumber, regexp.MustCompile(`(?i)Application\s+Number:\s*(\w{3,15})`)},
	{models.EntityPhone, regexp.MustCompile(`(?i)Phone\s+Number:\s*(\+?[0-9\s()\-.]{10,20})`)},
	{models.EntityPersonName, regexp.MustCompile(`Name:\s*([A-Z][a-zA-Z\s]{2,30})`)},
}

// structuralRules approximate multi-token entities: names with honorifics,
// organizations with legal suffixes, date forms. They match whole spans so
// a later mask or replace does not fragment the entity. Lowest confidence;
// the validator's field-label guard keeps captions like "Phone Number" from
// ever surviving as a person name.
var structuralRules = []patternRule{
	{models.EntityPersonName, regexp.MustCompile(`\b(?:Dr|Mr|Mrs|Ms|Prof|Professor|Captain|Sir|Madam)\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`)},
	{models.EntityOrganization, regexp.MustCompile(`\b[A-Z][A-Za-z]*(?:\s+[A-Z][A-Za-z]*)*\s+(?:Inc|Corp|LLC|Ltd|Co|Company|Corporation|Incorporated|Limited)\b`)},
	{models.EntityOrganization, regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+(?:Bank|Hospital|University|College|School|Clinic|Center)\b`)},
	{models.EntityDateTime, regexp.MustCompile(`\b\d{1,4}[/\-.]\d{1,2}[/\-.]\d{1,4}\b`)},
	{models.EntityDateTime, regexp.MustCompile(`\b[A-Z][a-z]{2,8}\s+\d{1,2},\s+\d{4}\b`)},
	{models.EntityPersonName, regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`)},
}

// Patterns scans text with the full rule set and returns validated
// candidates. Output is unordered and may overlap; the resolver owns
// dedup.
func Patterns(text string) []models.Candidate {
	var candidates []models.Candidate

	for _, rule := range contextRules {
		for _, loc := range rule.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[2], loc[3]
			value := strings.TrimRight(text[start:end], " \t\r\n")
			end = start + len(value)
			if !validate.Valid(rule.entityType, value) {
				continue
			}
			candidates = append(candidates, models.Candidate{
				Span:     models.Span{Start: start, End: end},
				Type:     rule.entityType,
				Text:     value,
				Source:   models.SourceContext,
				Priority: priorityContext,
			})
		}
	}

	for _, rule := range patternRules {
		for _, loc := range rule.re.FindAllStringIndex(text, -1) {
			value := text[loc[0]:loc[1]]
			if !validate.Valid(rule.entityType, value) {
				continue
			}
			candidates = append(candidates, models.Candidate{
				Span:     models.Span{Start: loc[0], End: loc[1]},
				Type:     rule.entityType,
				Text:     value,
				Source:   models.SourcePattern,
				Priority: priorityStructured,
			})
		}
	}

	for _, rule := range structuralRules {
		for _, loc := range rule.re.FindAllStringIndex(text, -1) {
			value := text[loc[0]:loc[1]]
			if len(strings.TrimSpace(value)) < 3 {
				continue
			}
			if !validate.Valid(rule.entityType, value) {
				continue
			}
			candidates = append(candidates, models.Candidate{
				Span:     models.Span{Start: loc[0], End: loc[1]},
				Type:     rule.entityType,
				Text:     value,
				Source:   models.SourcePattern,
				Priority: priorityStructural,
			})
		}
	}

	return candidates
}

// modelCategories maps the NER model's coarse labels onto the entity
// enumeration. Unmapped categories are discarded.
var modelCategories = map[string]models.EntityType{
	"PERSON":      models.EntityPersonName,
	"GPE":         models.EntityLocation,
	"LOC":         models.EntityLocation,
	"ORG":         models.EntityOrganization,
	"DATE":        models.EntityDateTime,
	"TIME":        models.EntityDateTime,
	"MONEY":       models.EntityFinancialAmount,
	"FAC":         models.EntityFacility,
	"NORP":        models.EntityNationalityGroup,
	"EVENT":       models.EntityEvent,
	"LAW":         models.EntityLegalDocument,
	"LANGUAGE":    models.EntityLanguage,
	"WORK_OF_ART": models.EntityArtwork,
}

// MapCategory resolves a model label to an EntityType, reporting whether
// the category is recognized.
func MapCategory(category string) (models.EntityType, bool) {
	t, ok := modelCategories[category]
	return t, ok
}

// FromModel converts model detector output into validated candidates.
// The model is untrusted input: entities with unmapped categories,
// inverted or out-of-range spans, spans that do not line up with the
// reported text, or spans shorter than two characters are dropped.
func FromModel(text string, entities []models.ModelEntity) []models.Candidate {
	var candidates []models.Candidate
	for _, e := range entities {
		entityType, ok := MapCategory(e.Category)
		if !ok {
			continue
		}
		if e.Start < 0 || e.End <= e.Start || e.End > len(text) {
			log.Debugf("discarding model entity %q: span [%d,%d) outside text of length %d",
				e.Text, e.Start, e.End, len(text))
			continue
		}
		if text[e.Start:e.End] != e.Text {
			// catches offsets reported in a different unit than bytes,
			// e.g. rune counts on non-ASCII text
			log.Debugf("discarding model entity %q: span [%d,%d) does not match source text",
				e.Text, e.Start, e.End)
			continue
		}
		if len(strings.TrimSpace(e.Text)) < 2 {
			continue
		}
		if !validate.Valid(entityType, e.Text) {
			continue
		}
		candidates = append(candidates, models.Candidate{
			Span:     e.Span,
			Type:     entityType,
			Text:     e.Text,
			Source:   models.SourceModel,
			Priority: priorityModel,
		})
	}
	return candidates
}
