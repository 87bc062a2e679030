package scorer

import (
	"fmt"
	"net/http"

	"rasaroots/internal/config"
	"rasaroots/internal/monitoring"
)

// Backend types.
const (
	TypeNone = "none"
	TypeHTTP = "http"
	TypeLLM  = "llm"
)

// New builds the configured scorer wrapped in a Guard. It returns nil for
// TypeNone; callers treat a nil Scorer as "no enrichment".
func New(cfg config.ScorerConfig, candidates []string, monitor *monitoring.Monitor) (Scorer, error) {
	var inner Scorer
	switch cfg.Type {
	case TypeNone, "":
		return nil, nil
	case TypeHTTP:
		inner = NewHTTPScorer(cfg.URL, &http.Client{})
	case TypeLLM:
		model, err := NewOpenAIModel(cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.Token)
		if err != nil {
			return nil, err
		}
		inner = NewLLMScorer(model, candidates)
	default:
		return nil, fmt.Errorf("unsupported scorer type: %s", cfg.Type)
	}

	return NewGuard(inner, GuardConfig{
		Name:             cfg.Type + "-scorer",
		Timeout:          cfg.Timeout,
		Retries:          cfg.Retries,
		FailureThreshold: cfg.FailureThreshold,
		OpenTimeout:      cfg.OpenTimeout,
	}, monitor), nil
}
