package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/getveil/veil/internal"
	"github.com/getveil/veil/pkg/models"
)

var log = internal.GetLogger()

const OKResponse = "OK"

// llmPromptTemplate frames the anonymized text so the model answers the
// message rather than commenting on the placeholders.
const llmPromptTemplate = "Please respond to the following message:\n\n%s"

type AnonymizeRequest struct {
	Text    string `json:"text"    validate:"required"`
	Mode    string `json:"mode"    validate:"omitempty,oneof=pseudonymize mask replace"`
	Persist bool   `json:"persist"`
	CallLLM bool   `json:"call_llm"`
}

type AnonymizeResponse struct {
	Text             string         `json:"text"`
	Mapping          models.Mapping `json:"mapping"`
	EntityCounts     map[string]int `json:"entity_counts"`
	MappingKey       string         `json:"mapping_key,omitempty"`
	DetectorDegraded bool           `json:"detector_degraded,omitempty"`
	LLMResponse      string         `json:"llm_response,omitempty"`
}

// AnonymizeHandler detects PII in the request text and rewrites it in the
// requested mode. Optionally persists the mapping and runs the anonymized
// text through the LLM round trip.
func AnonymizeHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload AnonymizeRequest
		if err := decodeJSON(r, &payload); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}
		mode, err := models.ParseMode(payload.Mode)
		if err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		result, err := appState.Anonymizer.Anonymize(r.Context(), payload.Text, mode)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		resp := AnonymizeResponse{
			Text:             result.Text,
			Mapping:          result.Mapping,
			EntityCounts:     result.EntityCounts,
			DetectorDegraded: result.DetectorDegraded,
		}

		if payload.Persist {
			if appState.MappingStore == nil {
				renderError(w, errors.New("mapping store not configured"), http.StatusBadRequest)
				return
			}
			key := uuid.New().String()
			if err := appState.MappingStore.Put(r.Context(), key, result.Mapping); err != nil {
				renderError(w, err, http.StatusInternalServerError)
				return
			}
			resp.MappingKey = key
		}

		if payload.CallLLM {
			if appState.LLMClient == nil {
				renderError(w, errors.New("llm service not configured"), http.StatusBadRequest)
				return
			}
			prompt := fmt.Sprintf(llmPromptTemplate, result.Text)
			completion, err := appState.LLMClient.Complete(r.Context(), prompt)
			if err != nil {
				renderError(w, err, http.StatusBadGateway)
				return
			}
			resp.LLMResponse = appState.Anonymizer.Deanonymize(completion, result.Mapping)
		}

		if err := encodeJSON(w, resp); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

type DeanonymizeRequest struct {
	Text       string         `json:"text" validate:"required"`
	Mapping    models.Mapping `json:"mapping"`
	MappingKey string         `json:"mapping_key"`
}

type DeanonymizeResponse struct {
	Text string `json:"text"`
}

// DeanonymizeHandler restores original values in text, using either an
// inline mapping or one previously persisted under mapping_key.
func DeanonymizeHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload DeanonymizeRequest
		if err := decodeJSON(r, &payload); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		mapping := payload.Mapping
		if payload.MappingKey != "" {
			if appState.MappingStore == nil {
				renderError(w, errors.New("mapping store not configured"), http.StatusBadRequest)
				return
			}
			stored, err := appState.MappingStore.Get(r.Context(), payload.MappingKey)
			if err != nil {
				switch {
				case errors.Is(err, models.ErrNotFound):
					renderError(w, err, http.StatusNotFound)
				case errors.Is(err, models.ErrMappingCorrupt):
					renderError(w, err, http.StatusInternalServerError)
				default:
					renderError(w, err, http.StatusInternalServerError)
				}
				return
			}
			mapping = stored
		}

		text := appState.Anonymizer.Deanonymize(payload.Text, mapping)
		if err := encodeJSON(w, DeanonymizeResponse{Text: text}); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

type PreviewRequest struct {
	Text string `json:"text" validate:"required"`
}

type PreviewResponse struct {
	Entities         map[string][]string `json:"entities"`
	DetectorDegraded bool                `json:"detector_degraded,omitempty"`
}

// PreviewHandler returns example detected values per entity type without
// transforming the text.
func PreviewHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload PreviewRequest
		if err := decodeJSON(r, &payload); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		entities, degraded, err := appState.Anonymizer.Preview(r.Context(), payload.Text)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
		if err := encodeJSON(w, PreviewResponse{
			Entities:         entities,
			DetectorDegraded: degraded,
		}); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

type StatsRequest struct {
	Text string `json:"text" validate:"required"`
}

type StatsResponse struct {
	Counts           map[string]int `json:"counts"`
	DetectorDegraded bool           `json:"detector_degraded,omitempty"`
}

// StatsHandler returns detection counts per entity type without
// transforming the text.
func StatsHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload StatsRequest
		if err := decodeJSON(r, &payload); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		counts, degraded, err := appState.Anonymizer.Stats(r.Context(), payload.Text)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
		if err := encodeJSON(w, StatsResponse{
			Counts:           counts,
			DetectorDegraded: degraded,
		}); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// ClearMappingsHandler deletes every persisted mapping.
func ClearMappingsHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if appState.MappingStore == nil {
			renderError(w, errors.New("mapping store not configured"), http.StatusBadRequest)
			return
		}
		if err := appState.MappingStore.Clear(r.Context()); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(OKResponse))
	}
}
