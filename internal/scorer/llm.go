package scorer

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LLMScorer asks a chat model to rank a fixed list of candidate dishes.
type LLMScorer struct {
	model      llms.Model
	candidates []string
}

// NewOpenAIModel connects to an OpenAI-compatible endpoint.
func NewOpenAIModel(model, baseURL, token string) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI model: %w", err)
	}
	return llm, nil
}

// NewLLMScorer creates a scorer that ranks candidates with model.
func NewLLMScorer(model llms.Model, candidates []string) *LLMScorer {
	return &LLMScorer{model: model, candidates: candidates}
}

// Score implements Scorer.
func (s *LLMScorer) Score(ctx context.Context, req Request) ([]Recommendation, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, s.model, s.prompt(req), llms.WithTemperature(0))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	start, end := strings.Index(out, "{"), strings.LastIndex(out, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output")
	}
	recs, err := decode([]byte(out[start : end+1]))
	if err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	return recs, nil
}

func (s *LLMScorer) prompt(req Request) string {
	var b strings.Builder
	b.WriteString("You rank Indian home-cooked dishes for a household.\n")
	fmt.Fprintf(&b, "Time of day: %s\n", orAny(req.TimeOfDay))
	fmt.Fprintf(&b, "Region: %s\n", orAny(req.Region))
	fmt.Fprintf(&b, "Wanted tags: %s\n", orAny(strings.Join(req.Tags, ", ")))
	fmt.Fprintf(&b, "Family size: %d\n", req.FamilySize)
	for k, v := range req.Preferences {
		fmt.Fprintf(&b, "Preference %s: %s\n", k, strings.Join(v, ", "))
	}
	b.WriteString("Candidates:\n")
	for _, c := range s.candidates {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString(`Pick at most 5 candidates. Reply with JSON only, shaped as ` +
		`{"recommendations":[{"name":"...","tags":["..."],"meal_type":"...","confidence":0.0}]} ` +
		`with confidence between 0 and 1.`)
	return b.String()
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}
