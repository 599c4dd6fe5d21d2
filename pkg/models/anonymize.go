package models

import "context"

// Mode selects the anonymization transform.
type Mode string

const (
	ModePseudonymize Mode = "pseudonymize"
	ModeMask         Mode = "mask"
	ModeReplace      Mode = "replace"
)

// ParseMode validates a mode string. The empty string defaults to
// pseudonymize, matching the API default.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePseudonymize, ModeMask, ModeReplace:
		return Mode(s), nil
	case "":
		return ModePseudonymize, nil
	}
	return "", &InvalidModeError{Mode: s}
}

// Mapping is the reversible placeholder -> original-text association built
// during one pseudonymize call. Always empty for mask and replace modes.
type Mapping map[string]string

// AnonymizeResult is the outcome of one anonymization call.
type AnonymizeResult struct {
	Text     string  `json:"anonymized_text"`
	Mapping  Mapping `json:"mapping,omitempty"`
	Entities []ResolvedEntity
	// EntityCounts is keyed by the human-readable type label.
	EntityCounts map[string]int `json:"entity_counts"`
	// DetectorDegraded is set when the model detector failed and results
	// were produced from pattern rules alone.
	DetectorDegraded bool `json:"detector_degraded"`
}

// Anonymizer is the detection-and-transform engine.
type Anonymizer interface {
	Anonymize(ctx context.Context, text string, mode Mode) (*AnonymizeResult, error)
	Deanonymize(text string, mapping Mapping) string
	Preview(ctx context.Context, text string) (map[string][]string, bool, error)
	Stats(ctx context.Context, text string) (map[string]int, bool, error)
}

// MappingStore persists mappings encrypted at rest, keyed by an opaque
// session/request key. A write and a read/delete on the same key are
// serialized by the implementation. There is no implicit expiry; Clear is
// the only way mappings are deleted in bulk.
type MappingStore interface {
	Put(ctx context.Context, key string, mapping Mapping) error
	Get(ctx context.Context, key string) (Mapping, error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// ChatClient is the LLM used for the optional anonymized round trip.
type ChatClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
