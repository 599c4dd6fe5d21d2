package transform

import (
	"regexp"
	"sort"
	"strings"

	"github.com/getveil/veil/pkg/models"
)

// Deanonymize restores original values for every mapping label found in
// text. Longer labels substitute first so that a label which is a prefix
// of another (name_1 vs name_10) cannot corrupt the longer one. Matching
// is case-insensitive on word boundaries since an LLM may restyle a label;
// an all-caps occurrence gets the original value upper-cased to match.
// Labels absent from the mapping are left untouched: they may be
// legitimate literal text.
func Deanonymize(text string, mapping models.Mapping) string {
	if len(mapping) == 0 {
		return text
	}

	labels := make([]string, 0, len(mapping))
	for label := range mapping {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if len(labels[i]) != len(labels[j]) {
			return len(labels[i]) > len(labels[j])
		}
		return labels[i] < labels[j]
	})

	result := text
	for _, label := range labels {
		original := mapping[label]
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(label) + `\b`)
		if err != nil {
			// QuoteMeta makes this unreachable in practice; fall back to a
			// literal replace rather than dropping the restoration.
			result = strings.ReplaceAll(result, label, original)
			continue
		}
		result = re.ReplaceAllStringFunc(result, func(match string) string {
			if match != label && match == strings.ToUpper(match) {
				return strings.ToUpper(original)
			}
			return original
		})
	}
	return result
}
