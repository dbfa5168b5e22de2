package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/citizenhero/raindrop/config"
	"github.com/citizenhero/raindrop/models"
)

const defaultInferenceTimeout = 15 * time.Second

// InferenceRequest is the payload sent to the SmartInference endpoint.
type InferenceRequest struct {
	MissionIdea string `json:"mission_idea"`
	HelpMode    string `json:"help_mode"`
	Who         string `json:"who,omitempty"`
	Where       string `json:"where,omitempty"`
	Outcome     string `json:"outcome,omitempty"`
}

// SmartInferenceClient calls the optional Raindrop SmartInference service.
// The service returns an untyped document; GenerateQuest validates the
// minimum shape on receipt and reports anything else as an error so the
// caller can fall back to local generation.
type SmartInferenceClient struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewSmartInferenceClient creates a client from config. The client is usable
// even when the endpoint is unconfigured; Configured reports whether calls
// should be attempted.
func NewSmartInferenceClient(cfg config.RaindropConfig) *SmartInferenceClient {
	timeout := defaultInferenceTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &SmartInferenceClient{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Configured reports whether both the endpoint URL and credential are set.
func (s *SmartInferenceClient) Configured() bool {
	return s != nil && s.apiURL != "" && s.apiKey != ""
}

// GenerateQuest issues a single bounded call to the SmartInference endpoint
// and validates the response shape. Callers must treat any error as a signal
// to generate locally; nothing here is fatal.
func (s *SmartInferenceClient) GenerateQuest(ctx context.Context, req InferenceRequest) (*models.Quest, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inference request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create inference request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("inference call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("inference endpoint returned %d: %s", resp.StatusCode, string(snippet))
	}

	var quest models.Quest
	if err := json.NewDecoder(resp.Body).Decode(&quest); err != nil {
		return nil, fmt.Errorf("malformed inference response: %w", err)
	}
	if len(quest.Steps) == 0 {
		return nil, fmt.Errorf("malformed inference response: missing steps")
	}

	return &quest, nil
}
