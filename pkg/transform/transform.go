// Package transform rewrites text for the three anonymization modes. All
// transforms are a single left-to-right pass over the disjoint resolved
// entity set; pseudonymize is the only reversible mode and the only one
// producing a non-empty mapping.
package transform

import (
	"fmt"
	"strings"

	"github.com/getveil/veil/pkg/models"
)

// Apply rewrites text according to mode and returns the transformed text
// with the mapping. The mapping is empty for mask and replace, which are
// lossy by design.
func Apply(
	text string,
	mode models.Mode,
	entities []models.ResolvedEntity,
) (string, models.Mapping, error) {
	switch mode {
	case models.ModePseudonymize:
		out, mapping := Pseudonymize(text, entities)
		return out, mapping, nil
	case models.ModeMask:
		return Mask(text, entities), models.Mapping{}, nil
	case models.ModeReplace:
		return Replace(text, entities), models.Mapping{}, nil
	}
	return "", nil, &models.InvalidModeError{Mode: string(mode)}
}

// Pseudonymize substitutes each entity with a semantic label of the form
// <prefix>_<n>, where n is a per-type counter scoped to this call.
// Identical (type, text) pairs reuse the same label, so the label cache
// and counters never leak across calls.
func Pseudonymize(text string, entities []models.ResolvedEntity) (string, models.Mapping) {
	mapping := models.Mapping{}
	counters := make(map[models.EntityType]int)
	cache := make(map[string]string)

	var b strings.Builder
	last := 0
	for _, e := range entities {
		b.WriteString(text[last:e.Start])

		cacheKey := string(e.Type) + ":" + e.Text
		label, ok := cache[cacheKey]
		if !ok {
			counters[e.Type]++
			label = fmt.Sprintf("%s_%d", e.Type.PseudonymPrefix(), counters[e.Type])
			cache[cacheKey] = label
			mapping[label] = e.Text
		}

		b.WriteString(label)
		last = e.End
	}
	b.WriteString(text[last:])

	return b.String(), mapping
}

// Replace substitutes each entity with its bracketed human-readable type
// label, e.g. "[Person Name]". One-way; nothing is recorded.
func Replace(text string, entities []models.ResolvedEntity) string {
	var b strings.Builder
	last := 0
	for _, e := range entities {
		b.WriteString(text[last:e.Start])
		b.WriteString("[" + e.Type.HumanLabel() + "]")
		last = e.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// Mask applies the per-type partial-reveal rule to each entity. Types
// without a dedicated rule fall back to a generic first/last-character
// mask rather than failing the call. One-way; nothing is recorded.
func Mask(text string, entities []models.ResolvedEntity) string {
	var b strings.Builder
	last := 0
	for _, e := range entities {
		b.WriteString(text[last:e.Start])
		b.WriteString(maskEntity(e.Type, e.Text))
		last = e.End
	}
	b.WriteString(text[last:])
	return b.String()
}
