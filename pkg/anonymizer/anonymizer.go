// Package anonymizer wires the detectors, overlap resolver and transform
// engine into the anonymization operations exposed to the API layer.
package anonymizer

import (
	"context"
	"strings"

	"github.com/getveil/veil/internal"
	"github.com/getveil/veil/pkg/detect"
	"github.com/getveil/veil/pkg/models"
	"github.com/getveil/veil/pkg/transform"
)

var log = internal.GetLogger()

// previewMaxExamples caps the example values returned per entity type by
// Preview.
const previewMaxExamples = 3

var _ models.Anonymizer = &Service{}

// Service runs detection and transformation for one text at a time. It
// holds no per-call state; the pseudonymization label cache lives inside
// each Anonymize call, so concurrent calls never share counters.
type Service struct {
	model models.ModelDetector
}

// NewService returns an anonymizer. A nil model detector disables
// model-based detection entirely without marking results degraded.
func NewService(model models.ModelDetector) *Service {
	return &Service{model: model}
}

// detect runs both detectors and resolves their candidates. A model
// detector failure degrades to pattern-only results; the degradation is
// reported to the caller rather than failing the call.
func (s *Service) detect(ctx context.Context, text string) ([]models.ResolvedEntity, bool) {
	candidates := detect.Patterns(text)

	degraded := false
	if s.model != nil {
		modelEntities, err := s.model.Detect(ctx, text)
		if err != nil {
			degraded = true
			log.Warnf("model detector unavailable, falling back to pattern detection: %v", err)
		} else {
			candidates = append(candidates, detect.FromModel(text, modelEntities)...)
		}
	}

	return detect.Resolve(candidates), degraded
}

// Anonymize detects PII in text and rewrites it in the given mode. Empty
// input returns an empty result, never an error.
func (s *Service) Anonymize(
	ctx context.Context,
	text string,
	mode models.Mode,
) (*models.AnonymizeResult, error) {
	if strings.TrimSpace(text) == "" {
		return &models.AnonymizeResult{
			Text:         text,
			Mapping:      models.Mapping{},
			EntityCounts: map[string]int{},
		}, nil
	}

	entities, degraded := s.detect(ctx, text)

	out, mapping, err := transform.Apply(text, mode, entities)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(entities))
	for _, e := range entities {
		counts[e.Type.HumanLabel()]++
	}

	return &models.AnonymizeResult{
		Text:             out,
		Mapping:          mapping,
		Entities:         entities,
		EntityCounts:     counts,
		DetectorDegraded: degraded,
	}, nil
}

// Deanonymize restores original values for the mapping's labels. Only
// meaningful for pseudonymize-mode output.
func (s *Service) Deanonymize(text string, mapping models.Mapping) string {
	return transform.Deanonymize(text, mapping)
}

// Preview returns up to three example values per human-readable type
// label without transforming the text.
func (s *Service) Preview(
	ctx context.Context,
	text string,
) (map[string][]string, bool, error) {
	entities, degraded := s.detect(ctx, text)

	preview := make(map[string][]string)
	for _, e := range entities {
		label := e.Type.HumanLabel()
		if len(preview[label]) >= previewMaxExamples || contains(preview[label], e.Text) {
			continue
		}
		preview[label] = append(preview[label], e.Text)
	}
	return preview, degraded, nil
}

// Stats returns detection counts per human-readable type label without
// transforming the text.
func (s *Service) Stats(
	ctx context.Context,
	text string,
) (map[string]int, bool, error) {
	entities, degraded := s.detect(ctx, text)

	stats := make(map[string]int)
	for _, e := range entities {
		stats[e.Type.HumanLabel()]++
	}
	return stats, degraded, nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
