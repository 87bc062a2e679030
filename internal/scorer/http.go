package scorer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

// maxBody caps how much of a scorer response is read.
const maxBody = 1 << 20

// HTTPScorer posts requests to a remote scoring service.
type HTTPScorer struct {
	url    string
	client *http.Client
}

// NewHTTPScorer creates a scorer for url. Timeouts are applied per call by
// Guard through the request context.
func NewHTTPScorer(url string, client *http.Client) *HTTPScorer {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPScorer{url: url, client: client}
}

// Score implements Scorer.
func (s *HTTPScorer) Score(ctx context.Context, req Request) ([]Recommendation, error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}
	if req.Preferences == nil {
		req.Preferences = map[string][]string{}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode scorer request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build scorer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call scorer: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read scorer response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	recs, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode scorer response: %w", err)
	}
	return recs, nil
}
