package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getveil/veil/pkg/models"
)

func entity(start, end int, t models.EntityType, text string) models.ResolvedEntity {
	return models.ResolvedEntity{
		Span: models.Span{Start: start, End: end},
		Type: t,
		Text: text,
	}
}

func TestPseudonymizeCounters(t *testing.T) {
	text := "John Smith emailed Jane Doe."
	entities := []models.ResolvedEntity{
		entity(0, 10, models.EntityPersonName, "John Smith"),
		entity(19, 27, models.EntityPersonName, "Jane Doe"),
	}

	out, mapping := Pseudonymize(text, entities)
	assert.Equal(t, "name_1 emailed name_2.", out)
	assert.Equal(t, models.Mapping{
		"name_1": "John Smith",
		"name_2": "Jane Doe",
	}, mapping)
}

func TestPseudonymizeRepeatedValueReusesLabel(t *testing.T) {
	text := "Write to a@b.com or a@b.com today."
	entities := []models.ResolvedEntity{
		entity(9, 16, models.EntityEmail, "a@b.com"),
		entity(20, 27, models.EntityEmail, "a@b.com"),
	}

	out, mapping := Pseudonymize(text, entities)
	assert.Equal(t, "Write to email_1 or email_1 today.", out)
	require.Len(t, mapping, 1)
	assert.Equal(t, "a@b.com", mapping["email_1"])
}

func TestPseudonymizeSameValueDifferentTypes(t *testing.T) {
	// identical text under different types gets distinct labels
	text := "1234567890 1234567890"
	entities := []models.ResolvedEntity{
		entity(0, 10, models.EntityPhone, "1234567890"),
		entity(11, 21, models.EntityAccountNumber, "1234567890"),
	}

	_, mapping := Pseudonymize(text, entities)
	require.Len(t, mapping, 2)
	assert.Equal(t, "1234567890", mapping["mobNo_1"])
	assert.Equal(t, "1234567890", mapping["account_number_1"])
}

func TestReplace(t *testing.T) {
	text := "Call John Smith at 555-123-4567."
	entities := []models.ResolvedEntity{
		entity(5, 15, models.EntityPersonName, "John Smith"),
		entity(19, 31, models.EntityPhone, "555-123-4567"),
	}

	out := Replace(text, entities)
	assert.Equal(t, "Call [Person Name] at [Phone Number].", out)
}

func TestApplyMaskAndReplaceMappingsEmpty(t *testing.T) {
	text := "Reach me at a@b.com"
	entities := []models.ResolvedEntity{
		entity(12, 19, models.EntityEmail, "a@b.com"),
	}

	for _, mode := range []models.Mode{models.ModeMask, models.ModeReplace} {
		_, mapping, err := Apply(text, mode, entities)
		require.NoError(t, err)
		assert.Empty(t, mapping, string(mode))
	}
}

func TestApplyUnknownMode(t *testing.T) {
	_, _, err := Apply("text", models.Mode("redact"), nil)
	require.Error(t, err)
	var modeErr *models.InvalidModeError
	assert.ErrorAs(t, err, &modeErr)
}

func TestMaskCreditCard(t *testing.T) {
	text := "Card: 4532 1234 5678 9012"
	entities := []models.ResolvedEntity{
		entity(6, 25, models.EntityCreditCard, "4532 1234 5678 9012"),
	}

	out := Mask(text, entities)
	assert.Equal(t, "Card: 4532-XXXX-XXXX-9012", out)
}

func TestMaskEmail(t *testing.T) {
	out := Mask("john.doe@example.com", []models.ResolvedEntity{
		entity(0, 20, models.EntityEmail, "john.doe@example.com"),
	})
	assert.Equal(t, "jo******@example.com", out)

	short := Mask("abc@example.com", []models.ResolvedEntity{
		entity(0, 15, models.EntityEmail, "abc@example.com"),
	})
	assert.Equal(t, "a**@example.com", short)
}

func TestMaskPhone(t *testing.T) {
	out := Mask("+1-234-567-8901", []models.ResolvedEntity{
		entity(0, 15, models.EntityPhone, "+1-234-567-8901"),
	})
	assert.Equal(t, "+1-23X-XXX-XXX1", out)
}

func TestMaskSSN(t *testing.T) {
	out := Mask("123-45-6789", []models.ResolvedEntity{
		entity(0, 11, models.EntitySSN, "123-45-6789"),
	})
	assert.Equal(t, "123-XX-XXXX", out)
}

func TestMaskName(t *testing.T) {
	out := Mask("John Smith", []models.ResolvedEntity{
		entity(0, 10, models.EntityPersonName, "John Smith"),
	})
	assert.Equal(t, "J*** S****", out)
}

func TestMaskIPAddress(t *testing.T) {
	out := Mask("192.168.1.100", []models.ResolvedEntity{
		entity(0, 13, models.EntityIPAddress, "192.168.1.100"),
	})
	assert.Equal(t, "192.XXX.XXX.XXX", out)
}

func TestMaskPreservesSurroundingText(t *testing.T) {
	text := "before 123-45-6789 after"
	out := Mask(text, []models.ResolvedEntity{
		entity(7, 18, models.EntitySSN, "123-45-6789"),
	})
	assert.Equal(t, "before 123-XX-XXXX after", out)
}
