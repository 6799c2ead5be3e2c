package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iceymoss/sentinelpost/internal/core"
)

// Client calls a Stable-Diffusion-style txt2img HTTP endpoint and returns
// the base64 payload of the first generated image.
type Client struct {
	baseURL string
	model   string
	steps   int
	client  *http.Client
}

var _ core.ImageGenerator = (*Client)(nil)

func NewClient(baseURL, model string, steps int) *Client {
	if steps <= 0 {
		steps = 20
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		steps:   steps,
		// Diffusion inference is slow, give it room
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

type txt2imgRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
	Steps  int    `json:"steps"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type txt2imgResponse struct {
	Images []string `json:"images"`
}

// Generate renders the prompt and returns the encoded image payload.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(txt2imgRequest{
		Prompt: prompt,
		Model:  c.model,
		Steps:  c.steps,
		Width:  512,
		Height: 512,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sdapi/v1/txt2img", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("image API %d: %s", resp.StatusCode, string(b))
	}

	var tr txt2imgResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode image response: %w", err)
	}
	if len(tr.Images) == 0 || tr.Images[0] == "" {
		return "", fmt.Errorf("empty image payload")
	}
	return tr.Images[0], nil
}
