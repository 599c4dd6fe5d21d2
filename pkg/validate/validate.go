// Package validate holds the per-type structural validators that decide
// whether a candidate span is plausible PII. Validators are pure functions;
// a rejection is a normal filtering outcome, not an error.
package validate

import (
	"strings"
	"unicode"

	"github.com/getveil/veil/pkg/models"
)

// fieldLabels are form-field captions that must never be classified as a
// person name, organization or location. "Phone Number" is a label for a
// phone, not someone called Phone Number.
var fieldLabels = map[string]bool{
	"phone number": true, "email": true, "address": true,
	"account number": true, "employee id": true, "application number": true,
	"name": true, "contact": true, "information": true, "details": true,
	"verification": true, "request": true, "department": true, "status": true,
	"update": true, "date": true, "salary": true, "position": true,
	"title": true, "id": true, "number": true, "code": true, "reference": true,
	"date of birth": true, "first name": true, "last name": true,
	"document number": true, "social security number": true,
	"passport number": true, "driver license": true, "license number": true,
	"credit card number": true, "phone": true, "mobile": true, "cell": true,
}

var orgTerms = map[string]bool{
	"hr": true, "human resources": true, "department": true, "team": true,
	"company": true, "corporation": true, "inc": true, "llc": true,
	"ltd": true, "co": true, "organization": true, "office": true,
	"division": true,
}

// commonFirstNames lets obvious single-token first names through the
// single-word person-name filter.
var commonFirstNames = map[string]bool{
	"john": true, "jane": true, "michael": true, "sarah": true,
	"david": true, "mary": true, "james": true, "jennifer": true,
}

// Valid reports whether raw is structurally plausible for the given entity
// type. Candidates failing validation are dropped before overlap
// resolution; this is the false-positive suppression mechanism for both
// detectors.
func Valid(entityType models.EntityType, raw string) bool {
	text := strings.TrimSpace(raw)
	if text == "" {
		return false
	}

	switch entityType {
	case models.EntityPersonName:
		return validPersonName(text)
	case models.EntityOrganization, models.EntityLocation:
		return !isFieldLabel(text)
	case models.EntityEmail:
		return validEmail(text)
	case models.EntityPhone:
		return validPhone(text)
	case models.EntityCreditCard:
		return validCreditCard(text)
	case models.EntitySSN:
		return validSSN(text)
	case models.EntityAccountNumber:
		n := digitCount(text)
		return n >= 8 && n <= 17
	case models.EntityEmployeeID, models.EntityApplicationNumber:
		return len(text) >= 3 && len(text) <= 15
	case models.EntityZipCode:
		return validZipCode(text)
	case models.EntityAccountID:
		return validAccountID(text)
	case models.EntityIPAddress:
		return validIPAddress(text)
	case models.EntityURL:
		return validURL(text)
	case models.EntityDateTime:
		return validDateTime(text)
	case models.EntityAddress:
		return validAddress(text)
	case models.EntityPassport:
		return alnumCount(text) >= 6
	}
	return true
}

func isFieldLabel(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if fieldLabels[lower] {
		return true
	}
	for label := range fieldLabels {
		if strings.Contains(lower, label) {
			return true
		}
	}
	return false
}

func validPersonName(text string) bool {
	lower := strings.ToLower(text)
	if isFieldLabel(text) || orgTerms[lower] {
		return false
	}
	for _, pattern := range []string{"number", "id", "code", "account", "employee"} {
		if strings.Contains(lower, pattern) {
			return false
		}
	}
	// Single words are rarely names unless they are common first names.
	if len(strings.Fields(text)) == 1 && !commonFirstNames[lower] {
		if !unicode.IsUpper([]rune(text)[0]) {
			return false
		}
	}
	return true
}

func validEmail(text string) bool {
	parts := strings.Split(text, "@")
	if len(parts) != 2 {
		return false
	}
	local, domain := parts[0], parts[1]
	if local == "" {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	domainParts := strings.Split(domain, ".")
	if len(domainParts) < 2 {
		return false
	}
	for _, p := range domainParts {
		if p == "" {
			return false
		}
	}
	return true
}

func validPhone(text string) bool {
	digits := digitCount(text)
	if digits < 7 || digits > 15 {
		return false
	}
	// Fewer than 10 digits needs at least one separator to look like a
	// phone number rather than a bare numeric token.
	if digits < 10 && !hasPhoneSeparator(text) {
		return false
	}
	// 13+ consecutive bare digits collide with credit cards and account
	// numbers.
	if digits >= 13 && longestDigitRun(text) >= 13 {
		return false
	}
	if digits > 11 && !hasPhoneSeparator(text) {
		return false
	}
	return true
}

// validCreditCard checks prefix-and-length pairs jointly: any leading digit
// outside the known networks is rejected outright regardless of length.
func validCreditCard(text string) bool {
	digits := digitString(text)
	n := len(digits)
	if n < 13 || n > 19 {
		return false
	}
	switch digits[0] {
	case '3': // Amex, Diners
		return n == 14 || n == 15
	case '4': // Visa
		return n == 13 || n == 16
	case '5': // Mastercard 51-55
		return n == 16 && digits[1] >= '1' && digits[1] <= '5'
	case '6': // Discover
		return n == 16
	}
	return false
}

func validSSN(text string) bool {
	digits := digitString(text)
	if len(digits) != 9 {
		return false
	}
	// Reject all-zero group segments (000-xx-xxxx, xxx-00-xxxx, xxx-xx-0000).
	if digits[0:3] == "000" || digits[3:5] == "00" || digits[5:9] == "0000" {
		return false
	}
	return true
}

func validZipCode(text string) bool {
	if len(text) == 5 {
		return digitCount(text) == 5
	}
	if len(text) == 10 && text[5] == '-' {
		return digitCount(text) == 9
	}
	return false
}

func validAccountID(text string) bool {
	if len(text) < 5 {
		return false
	}
	// Must look like PREFIX-1234: 2-4 letters, then digits.
	i := 0
	for i < len(text) && isASCIILetter(text[i]) {
		i++
	}
	if i < 2 || i > 4 {
		return false
	}
	return digitCount(text[i:]) >= 4
}

func validIPAddress(text string) bool {
	parts := strings.Split(text, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return false
		}
		n := 0
		for _, c := range p {
			if !unicode.IsDigit(c) {
				return false
			}
			n = n*10 + int(c-'0')
		}
		if n > 255 {
			return false
		}
	}
	return true
}

func validURL(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range []string{"http", "www", ".com", ".org", ".net"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// validDateTime rejects numeric tokens that collide with ZIP codes and
// account IDs, which the dedicated patterns claim.
func validDateTime(text string) bool {
	if validZipCode(text) {
		return false
	}
	if validAccountID(text) {
		return false
	}
	if digitCount(text) == len(text) {
		switch len(text) {
		case 5, 7:
			return false
		}
		if len(text) > 8 {
			return false
		}
	}
	if strings.Count(text, "-") >= 2 && hasLetter(text) {
		return false
	}
	return true
}

func validAddress(text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, " words") {
		return false
	}
	return len(text) >= 5 && hasLetter(text)
}

func digitCount(text string) int {
	n := 0
	for _, c := range text {
		if unicode.IsDigit(c) {
			n++
		}
	}
	return n
}

func digitString(text string) string {
	var b strings.Builder
	for _, c := range text {
		if unicode.IsDigit(c) {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func longestDigitRun(text string) int {
	longest, run := 0, 0
	for _, c := range text {
		if unicode.IsDigit(c) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

func hasPhoneSeparator(text string) bool {
	return strings.ContainsAny(text, " -.()")
}

func hasLetter(text string) bool {
	for _, c := range text {
		if unicode.IsLetter(c) {
			return true
		}
	}
	return false
}

func alnumCount(text string) int {
	n := 0
	for _, c := range text {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			n++
		}
	}
	return n
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
