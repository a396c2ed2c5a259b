package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteClassifier calls a model server over HTTP.
// The server accepts {"text": "..."} and answers with a Prediction.
type RemoteClassifier struct {
	url        string
	httpClient *http.Client
}

type remoteRequest struct {
	Text string `json:"text"`
}

type remoteError struct {
	Error string `json:"error"`
}

// NewRemoteClassifier creates a classifier for the model server at url
func NewRemoteClassifier(url string, timeout time.Duration, httpClient *http.Client) *RemoteClassifier {
	if httpClient == nil {
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &RemoteClassifier{
		url:        strings.TrimSuffix(url, "/"),
		httpClient: httpClient,
	}
}

// Name returns the classifier name
func (c *RemoteClassifier) Name() string {
	return "remote"
}

// Predict classifies text on the model server
func (c *RemoteClassifier) Predict(ctx context.Context, text string) (Prediction, error) {
	body, err := json.Marshal(remoteRequest{Text: text})
	if err != nil {
		return Prediction{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Prediction{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr remoteError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return Prediction{}, fmt.Errorf("classifier error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return Prediction{}, fmt.Errorf("classifier error (%d): %s", resp.StatusCode, string(respBody))
	}

	var p Prediction
	if err := json.Unmarshal(respBody, &p); err != nil {
		return Prediction{}, fmt.Errorf("unmarshal response: %w", err)
	}
	return p, nil
}
