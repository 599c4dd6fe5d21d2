package detect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"context"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/getveil/veil/pkg/models"
)

const (
	nerRequestAttempts = 3
	nerRequestDelay    = time.Second
)

var _ models.ModelDetector = &NERClient{}

// NERClient talks to the external NLP server's /entities endpoint. The
// server runs the statistical NER model; the client only sees spans and
// coarse category labels.
type NERClient struct {
	serverURL string
	client    *http.Client
}

func NewNERClient(serverURL string) *NERClient {
	return &NERClient{
		serverURL: serverURL,
		client:    http.DefaultClient,
	}
}

func (n *NERClient) Detect(ctx context.Context, text string) ([]models.ModelEntity, error) {
	url := n.serverURL + "/entities"

	requestBody := models.EntityRequest{
		Texts: []models.EntityRequestRecord{
			{
				UUID:     uuid.New().String(),
				Text:     text,
				Language: "en",
			},
		},
	}
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal NER request: %w", err)
	}

	var response models.EntityResponse

	// Retry POST request to the entity extractor 3 times with 1 second delay.
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(
				ctx,
				http.MethodPost,
				url,
				bytes.NewBuffer(jsonBody),
			)
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := n.client.Do(req)
			if err != nil {
				log.Error("Error making POST request:", err)
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("NER server returned status %d", resp.StatusCode)
			}

			bodyBytes, err := io.ReadAll(resp.Body)
			if err != nil {
				log.Error("Error reading response body:", err)
				return err
			}

			if err := json.Unmarshal(bodyBytes, &response); err != nil {
				log.Error("Error unmarshaling response body:", err)
				return err
			}
			return nil
		},
		retry.Attempts(nerRequestAttempts),
		retry.Delay(nerRequestDelay),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDetectorUnavailable, err)
	}

	var entities []models.ModelEntity
	for _, record := range response.Texts {
		for _, entity := range record.Entities {
			for _, match := range entity.Matches {
				entities = append(entities, models.ModelEntity{
					Span:     models.Span{Start: match.Start, End: match.End},
					Category: entity.Label,
					Text:     match.Text,
				})
			}
		}
	}

	return entities, nil
}
