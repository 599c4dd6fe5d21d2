package models

import "context"

// ModelEntity is a single span emitted by the external NER model, carrying
// the model's coarse category label, not yet mapped to an EntityType.
type ModelEntity struct {
	Span
	Category string
	Text     string
}

// ModelDetector is the narrow interface the core consumes the statistical
// NER model through. Implementations may call an external NLP service or be
// a lightweight built-in tagger; the core only sees candidate spans with
// coarse categories and maps them via a fixed lookup table.
type ModelDetector interface {
	Detect(ctx context.Context, text string) ([]ModelEntity, error)
}

// Wire types for the NLP server's /entities endpoint.

type EntityMatch struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

type Entity struct {
	Name    string        `json:"name"`
	Label   string        `json:"label"`
	Matches []EntityMatch `json:"matches"`
}

type EntityRequestRecord struct {
	UUID     string `json:"uuid"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

type EntityResponseRecord struct {
	UUID     string   `json:"uuid"`
	Entities []Entity `json:"entities"`
}

type EntityRequest struct {
	Texts []EntityRequestRecord `json:"texts"`
}

type EntityResponse struct {
	Texts []EntityResponseRecord `json:"texts"`
}
