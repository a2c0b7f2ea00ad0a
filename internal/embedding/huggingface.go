package embedding

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// HuggingFaceEmbedder calls a feature-extraction inference endpoint.
type HuggingFaceEmbedder struct {
	url    string
	token  string
	client *http.Client
}

func NewHuggingFaceEmbedder(url, token string, timeout time.Duration) *HuggingFaceEmbedder {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HuggingFaceEmbedder{
		url:    strings.TrimSpace(url),
		token:  strings.TrimSpace(token),
		client: &http.Client{Timeout: timeout},
	}
}

type hfRequest struct {
	Inputs  string    `json:"inputs"`
	Options hfOptions `json:"options"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// Embed posts text to the endpoint. A non-200 status, an empty payload or a payload
// that is not a vector is an EMBEDDING_UNAVAILABLE error.
func (h *HuggingFaceEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if h.url == "" {
		return nil, unavailable(nil, "huggingface endpoint is not configured")
	}

	status, body, err := h.postJSON(ctx, hfRequest{
		Inputs:  text,
		Options: hfOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, unavailable(err, "huggingface request failed")
	}
	if status != http.StatusOK {
		return nil, unavailable(fmt.Errorf("status %d: %s", status, strings.TrimSpace(string(body))), "huggingface returned an error")
	}

	vec, err := decodeFeatureVector(body)
	if err != nil {
		return nil, unavailable(err, "huggingface returned an unusable payload")
	}
	return vec, nil
}

func (h *HuggingFaceEmbedder) postJSON(ctx context.Context, payload interface{}) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(data))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// decodeFeatureVector accepts either a flat vector or a batch of vectors, in which
// case the first one is used.
func decodeFeatureVector(body []byte) ([]float32, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("payload is not a JSON array: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty embedding")
	}

	if first := bytes.TrimSpace(raw[0]); len(first) > 0 && first[0] == '[' {
		var vec []float32
		if err := json.Unmarshal(first, &vec); err != nil {
			return nil, fmt.Errorf("nested embedding: %w", err)
		}
		if len(vec) == 0 {
			return nil, fmt.Errorf("empty embedding")
		}
		return vec, nil
	}

	var vec []float32
	if err := json.Unmarshal(body, &vec); err != nil {
		return nil, fmt.Errorf("flat embedding: %w", err)
	}
	return vec, nil
}
