package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/getveil/veil/pkg/models"
)

func TestValidEmail(t *testing.T) {
	testCases := []struct {
		email string
		valid bool
	}{
		{"user@domain.com", true},
		{"john.smith+tag@sub.example.org", true},
		{"user@@domain.com", false},
		{"@domain.com", false},
		{"user@domain", false},
		{"user@domain..com", false},
		{"user@.com", false},
	}

	for _, tc := range testCases {
		t.Run(tc.email, func(t *testing.T) {
			assert.Equal(t, tc.valid, Valid(models.EntityEmail, tc.email))
		})
	}
}

func TestValidPhone(t *testing.T) {
	testCases := []struct {
		phone string
		valid bool
	}{
		{"+1-234-567-8901", true},
		{"(555) 123-4567", true},
		{"5551234567", true},
		{"123", false},
		{"123456", false},
		// 13+ consecutive digits collide with card and account numbers
		{"1234567890123", false},
	}

	for _, tc := range testCases {
		t.Run(tc.phone, func(t *testing.T) {
			assert.Equal(t, tc.valid, Valid(models.EntityPhone, tc.phone))
		})
	}
}

func TestValidCreditCard(t *testing.T) {
	testCases := []struct {
		card  string
		valid bool
	}{
		{"4532 1234 5678 9012", true},
		{"4532123456789012", true},
		{"5112-3456-7890-1234", true},
		{"371234567890123", true},
		{"6011123456789012", true},
		// unknown network prefix is rejected regardless of length
		{"9999-9999-9999-9999", false},
		{"1234567890123456", false},
		// right prefix, wrong length for the network
		{"4532-1234-5678-901", false},
		{"51123456789012345", false},
	}

	for _, tc := range testCases {
		t.Run(tc.card, func(t *testing.T) {
			assert.Equal(t, tc.valid, Valid(models.EntityCreditCard, tc.card))
		})
	}
}

func TestValidSSN(t *testing.T) {
	assert.True(t, Valid(models.EntitySSN, "123-45-6789"))
	assert.True(t, Valid(models.EntitySSN, "123456789"))
	assert.False(t, Valid(models.EntitySSN, "000-45-6789"))
	assert.False(t, Valid(models.EntitySSN, "123-00-6789"))
	assert.False(t, Valid(models.EntitySSN, "123-45-0000"))
	assert.False(t, Valid(models.EntitySSN, "123-45-678"))
}

func TestValidPersonName(t *testing.T) {
	assert.True(t, Valid(models.EntityPersonName, "John Smith"))
	assert.True(t, Valid(models.EntityPersonName, "Alice"))
	assert.True(t, Valid(models.EntityPersonName, "john"))

	// form-field captions are never person names
	assert.False(t, Valid(models.EntityPersonName, "Phone Number"))
	assert.False(t, Valid(models.EntityPersonName, "Account Number"))
	assert.False(t, Valid(models.EntityPersonName, "First Name"))
	assert.False(t, Valid(models.EntityPersonName, "Employee ID"))
	assert.False(t, Valid(models.EntityPersonName, "HR"))
	assert.False(t, Valid(models.EntityPersonName, "lowercase"))
}

func TestValidZipCode(t *testing.T) {
	assert.True(t, Valid(models.EntityZipCode, "12345"))
	assert.True(t, Valid(models.EntityZipCode, "12345-6789"))
	assert.False(t, Valid(models.EntityZipCode, "1234"))
	assert.False(t, Valid(models.EntityZipCode, "123456"))
	assert.False(t, Valid(models.EntityZipCode, "12345-678"))
}

func TestValidIPAddress(t *testing.T) {
	assert.True(t, Valid(models.EntityIPAddress, "192.168.1.1"))
	assert.True(t, Valid(models.EntityIPAddress, "255.255.255.255"))
	assert.False(t, Valid(models.EntityIPAddress, "256.1.1.1"))
	assert.False(t, Valid(models.EntityIPAddress, "192.168.1"))
	assert.False(t, Valid(models.EntityIPAddress, "192.168.1.a"))
}

func TestValidAccountNumber(t *testing.T) {
	assert.True(t, Valid(models.EntityAccountNumber, "9876543210"))
	assert.False(t, Valid(models.EntityAccountNumber, "1234567"))
	assert.False(t, Valid(models.EntityAccountNumber, "123456789012345678"))
}

func TestValidDateTime(t *testing.T) {
	assert.True(t, Valid(models.EntityDateTime, "January 2, 2006"))
	assert.True(t, Valid(models.EntityDateTime, "12/31/2023"))
	// ZIP-shaped tokens belong to the ZIP pattern
	assert.False(t, Valid(models.EntityDateTime, "12345"))
}
