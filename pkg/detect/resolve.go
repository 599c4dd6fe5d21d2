package detect

import (
	"sort"

	"github.com/getveil/veil/pkg/models"
)

// DefaultOverlapRatio is the share of the smaller span that two candidates
// must share before they are treated as duplicate detections of the same
// underlying entity. Below it the overlap is considered partial, e.g. a
// location nested at the tail of a longer address, and the longer span
// wins outright instead of splicing.
const DefaultOverlapRatio = 0.2

// Resolve merges candidate spans from all detectors into a disjoint,
// validated entity set. Candidates are ordered by earliest start, then
// longest span, then detector priority, and accepted greedily: any
// candidate overlapping an already accepted span is discarded. Span
// preference is implemented entirely by that sort order: among candidates
// starting at the same offset the longest wins, and a longer candidate
// that starts after an accepted span never displaces it. The overlap
// ratio only classifies a discard as a duplicate detection or a partial
// overlap for the debug log.
func Resolve(candidates []models.Candidate) []models.ResolvedEntity {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]models.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		if sorted[i].Len() != sorted[j].Len() {
			return sorted[i].Len() > sorted[j].Len()
		}
		return sorted[i].Priority > sorted[j].Priority
	})

	var resolved []models.ResolvedEntity
	lastEnd := -1
	var last models.Candidate

	for _, c := range sorted {
		if c.Start >= lastEnd {
			resolved = append(resolved, models.ResolvedEntity{
				Span: c.Span,
				Type: c.Type,
				Text: c.Text,
			})
			lastEnd = c.End
			last = c
			continue
		}

		// Starts are ascending, so c can only overlap the last accepted
		// span.
		overlap := c.Span.Overlap(last.Span)
		minLen := c.Len()
		if last.Len() < minLen {
			minLen = last.Len()
		}
		ratio := float64(overlap) / float64(minLen)
		if ratio > DefaultOverlapRatio {
			log.Debugf("discarding duplicate %s candidate %q (overlap ratio %.2f)",
				c.Type, c.Text, ratio)
		} else {
			log.Debugf("discarding partial-overlap %s candidate %q in favor of longer span %q",
				c.Type, c.Text, last.Text)
		}
	}

	return resolved
}
