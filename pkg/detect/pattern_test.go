package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getveil/veil/pkg/models"
)

func resolveText(t *testing.T, text string) []models.ResolvedEntity {
	t.Helper()
	return Resolve(Patterns(text))
}

func entityTypes(entities []models.ResolvedEntity) []models.EntityType {
	types := make([]models.EntityType, len(entities))
	for i, e := range entities {
		types[i] = e.Type
	}
	return types
}

func TestPatternsEmail(t *testing.T) {
	entities := resolveText(t, "Contact me at john.smith@example.com please.")
	require.Len(t, entities, 1)
	assert.Equal(t, models.EntityEmail, entities[0].Type)
	assert.Equal(t, "john.smith@example.com", entities[0].Text)
}

func TestPatternsCreditCardNotFragmented(t *testing.T) {
	entities := resolveText(t, "My card number is 4532 1234 5678 9012.")
	require.Len(t, entities, 1)
	assert.Equal(t, models.EntityCreditCard, entities[0].Type)
	assert.Equal(t, "4532 1234 5678 9012", entities[0].Text)
}

func TestPatternsInvalidCardRejected(t *testing.T) {
	entities := resolveText(t, "Fake card 9999-9999-9999-9999 here.")
	for _, e := range entities {
		assert.NotEqual(t, models.EntityCreditCard, e.Type)
	}
}

func TestContextLabelOverridesShape(t *testing.T) {
	text := "Account Number: 9876543210\nPhone Number: +1-234-567-8901"
	entities := resolveText(t, text)
	require.Len(t, entities, 2)

	// The labeled ten-digit value would pass for a phone on shape alone;
	// the field label pins it to an account number.
	assert.Equal(t, models.EntityAccountNumber, entities[0].Type)
	assert.Equal(t, "9876543210", entities[0].Text)
	assert.Equal(t, models.EntityPhone, entities[1].Type)
	assert.Equal(t, "+1-234-567-8901", entities[1].Text)
}

func TestFieldLabelsNeverPersonNames(t *testing.T) {
	text := "Phone Number: +1-234-567-8901"
	entities := resolveText(t, text)
	assert.NotContains(t, entityTypes(entities), models.EntityPersonName)
}

func TestStructuralPersonName(t *testing.T) {
	entities := resolveText(t, "I spoke with John Smith about the report.")
	require.Len(t, entities, 1)
	assert.Equal(t, models.EntityPersonName, entities[0].Type)
	assert.Equal(t, "John Smith", entities[0].Text)
}

func TestStructuralHonorific(t *testing.T) {
	entities := resolveText(t, "An appointment with Dr. Sarah Johnson.")
	require.Len(t, entities, 1)
	assert.Equal(t, models.EntityPersonName, entities[0].Type)
	assert.Equal(t, "Dr. Sarah Johnson", entities[0].Text)
}

func TestStructuralOrganization(t *testing.T) {
	entities := resolveText(t, "She works for Acme Corp in accounting.")
	require.Len(t, entities, 1)
	assert.Equal(t, models.EntityOrganization, entities[0].Type)
	assert.Equal(t, "Acme Corp", entities[0].Text)
}

func TestStructuralDate(t *testing.T) {
	entities := resolveText(t, "The meeting is on January 2, 2026.")
	require.Len(t, entities, 1)
	assert.Equal(t, models.EntityDateTime, entities[0].Type)
	assert.Equal(t, "January 2, 2026", entities[0].Text)
}

func TestPatternsSSN(t *testing.T) {
	entities := resolveText(t, "SSN on file: 123-45-6789.")
	require.Len(t, entities, 1)
	assert.Equal(t, models.EntitySSN, entities[0].Type)
	assert.Equal(t, "123-45-6789", entities[0].Text)
}

func TestMapCategory(t *testing.T) {
	testCases := []struct {
		category   string
		entityType models.EntityType
		mapped     bool
	}{
		{"PERSON", models.EntityPersonName, true},
		{"GPE", models.EntityLocation, true},
		{"ORG", models.EntityOrganization, true},
		{"MONEY", models.EntityFinancialAmount, true},
		{"WORK_OF_ART", models.EntityArtwork, true},
		{"CARDINAL", "", false},
		{"ORDINAL", "", false},
	}

	for _, tc := range testCases {
		entityType, ok := MapCategory(tc.category)
		assert.Equal(t, tc.mapped, ok, tc.category)
		if tc.mapped {
			assert.Equal(t, tc.entityType, entityType)
		}
	}
}

func TestFromModel(t *testing.T) {
	text := "John Smith saw two J Phone Number"
	entities := []models.ModelEntity{
		{Span: models.Span{Start: 0, End: 10}, Category: "PERSON", Text: "John Smith"},
		// unmapped category dropped
		{Span: models.Span{Start: 15, End: 18}, Category: "CARDINAL", Text: "two"},
		// too short to anonymize
		{Span: models.Span{Start: 19, End: 20}, Category: "PERSON", Text: "J"},
		// field-label caption rejected by validation
		{Span: models.Span{Start: 21, End: 33}, Category: "PERSON", Text: "Phone Number"},
	}

	candidates := FromModel(text, entities)
	require.Len(t, candidates, 1)
	assert.Equal(t, models.EntityPersonName, candidates[0].Type)
	assert.Equal(t, models.SourceModel, candidates[0].Source)
	assert.Equal(t, priorityModel, candidates[0].Priority)
}

func TestFromModelDropsMalformedSpans(t *testing.T) {
	text := "Alice lives in Paris."
	entities := []models.ModelEntity{
		// past the end of the text
		{Span: models.Span{Start: 100, End: 110}, Category: "PERSON", Text: "Alice"},
		// negative start
		{Span: models.Span{Start: -3, End: 5}, Category: "PERSON", Text: "Alice"},
		// inverted
		{Span: models.Span{Start: 11, End: 5}, Category: "GPE", Text: "Paris"},
		// span does not cover the reported text
		{Span: models.Span{Start: 0, End: 5}, Category: "PERSON", Text: "Eve"},
		{Span: models.Span{Start: 15, End: 20}, Category: "GPE", Text: "Paris"},
	}

	candidates := FromModel(text, entities)
	require.Len(t, candidates, 1)
	assert.Equal(t, models.EntityLocation, candidates[0].Type)
	assert.Equal(t, "Paris", candidates[0].Text)
}
