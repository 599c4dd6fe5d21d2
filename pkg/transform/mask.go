package transform

import (
	"strings"
	"unicode"

	"github.com/getveil/veil/pkg/models"
)

// maskEntity dispatches to the type-specific partial-reveal rule.
func maskEntity(entityType models.EntityType, text string) string {
	switch entityType {
	case models.EntityEmail:
		return maskEmail(text)
	case models.EntityCreditCard:
		return maskCreditCard(text)
	case models.EntityPhone:
		return maskPhone(text)
	case models.EntitySSN:
		return maskSSN(text)
	case models.EntityZipCode:
		return maskZipCode(text)
	case models.EntityAccountID:
		return maskAccountID(text)
	case models.EntityPersonName, models.EntityOrganization:
		return maskWords(text)
	case models.EntityAddress:
		return maskAddress(text)
	case models.EntityIPAddress:
		return maskIPAddress(text)
	case models.EntityURL:
		return maskURL(text)
	}
	return maskGeneric(text)
}

// maskEmail reveals the first one or two local characters and the whole
// domain, so a reader can still tell which account family it was.
func maskEmail(text string) string {
	parts := strings.Split(text, "@")
	if len(parts) != 2 {
		return maskGeneric(text)
	}
	local, domain := parts[0], parts[1]
	if len(local) > 3 {
		return local[:2] + strings.Repeat("*", len(local)-2) + "@" + domain
	}
	return local[:1] + strings.Repeat("*", len(local)-1) + "@" + domain
}

// maskCreditCard keeps the first four and last four digits, the standard
// PAN truncation form.
func maskCreditCard(text string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, text)
	if len(clean) >= 8 {
		return clean[:4] + "-XXXX-XXXX-" + clean[len(clean)-4:]
	}
	return clean[:2] + strings.Repeat("*", len(clean)-2)
}

// maskPhone keeps the area code (first three digits) and the final digit,
// masking everything between while preserving separators.
func maskPhone(text string) string {
	out := []rune(text)
	digitIdx := make([]int, 0, len(out))
	for i, r := range out {
		if unicode.IsDigit(r) {
			digitIdx = append(digitIdx, i)
		}
	}
	if len(digitIdx) <= 4 {
		return maskGeneric(text)
	}
	for n, i := range digitIdx {
		if n < 3 || n == len(digitIdx)-1 {
			continue
		}
		out[i] = 'X'
	}
	return string(out)
}

func maskSSN(text string) string {
	if strings.Contains(text, "-") {
		parts := strings.Split(text, "-")
		return parts[0] + "-XX-XXXX"
	}
	if len(text) <= 3 {
		return maskGeneric(text)
	}
	return text[:3] + strings.Repeat("X", len(text)-3)
}

func maskZipCode(text string) string {
	if strings.Contains(text, "-") {
		parts := strings.Split(text, "-")
		if len(parts[0]) >= 3 {
			return parts[0][:3] + "**-****"
		}
	}
	if len(text) >= 5 {
		return text[:3] + "**"
	}
	return maskGeneric(text)
}

// maskAccountID keeps the alphabetic prefix and the final character.
func maskAccountID(text string) string {
	if len(text) <= 6 {
		return text[:1] + strings.Repeat("*", len(text)-1)
	}
	digitStart := strings.IndexFunc(text, unicode.IsDigit)
	if digitStart > 0 {
		rest := text[digitStart:]
		if len(rest) > 4 {
			return text[:digitStart] + strings.Repeat("*", len(rest)-1) + rest[len(rest)-1:]
		}
		return text[:digitStart] + strings.Repeat("*", len(rest))
	}
	return text[:2] + strings.Repeat("*", len(text)-3) + text[len(text)-1:]
}

// maskWords keeps the first letter of each token, for names and
// organizations.
func maskWords(text string) string {
	words := strings.Fields(text)
	masked := make([]string, len(words))
	for i, w := range words {
		switch {
		case len(w) > 1:
			masked[i] = w[:1] + strings.Repeat("*", len(w)-1)
		default:
			masked[i] = "*"
		}
	}
	return strings.Join(masked, " ")
}

// maskAddress keeps the street number and the first letter of each
// following token.
func maskAddress(text string) string {
	parts := strings.Fields(text)
	if len(parts) > 1 && isAllDigits(parts[0]) {
		masked := make([]string, 0, len(parts))
		masked = append(masked, parts[0])
		for _, p := range parts[1:] {
			if len(p) > 1 {
				masked = append(masked, p[:1]+strings.Repeat("*", len(p)-1))
			} else {
				masked = append(masked, "*")
			}
		}
		return strings.Join(masked, " ")
	}
	return maskWords(text)
}

func maskIPAddress(text string) string {
	octets := strings.Split(text, ".")
	if len(octets) == 4 {
		return octets[0] + ".XXX.XXX.XXX"
	}
	return maskGeneric(text)
}

// maskURL keeps scheme and host, masking the path.
func maskURL(text string) string {
	scheme, rest, found := strings.Cut(text, "://")
	if !found {
		return maskGeneric(text)
	}
	host, _, found := strings.Cut(rest, "/")
	if !found {
		return text
	}
	return scheme + "://" + host + "/***"
}

// maskGeneric is the fallback for types without a dedicated rule: first
// letter of each word for multi-word values, first and last character for
// single words.
func maskGeneric(text string) string {
	words := strings.Fields(text)
	if len(words) > 1 {
		return maskWords(text)
	}
	switch {
	case len(text) > 3:
		return text[:1] + strings.Repeat("*", len(text)-2) + text[len(text)-1:]
	case len(text) > 1:
		return text[:1] + strings.Repeat("*", len(text)-1)
	default:
		return "*"
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
