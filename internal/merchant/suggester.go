package merchant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"fintrack/internal/core"
)

// Suggestion is one model-proposed mapping for a raw merchant name.
type Suggestion struct {
	RawName     string `json:"raw_name"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
}

// Suggester asks Gemini for display names and categories for raw
// merchant strings. Callers are expected to fall back to Cleanup when
// a call fails.
type Suggester struct {
	client     *genai.Client
	model      string
	categories []string
}

func NewSuggester(ctx context.Context, apiKey, model string, categories []string) (*Suggester, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Suggester{client: client, model: model, categories: categories}, nil
}

// Suggest returns one suggestion per raw name, in no particular order.
// Names the model skips are simply absent from the result.
func (s *Suggester) Suggest(ctx context.Context, rawNames []string) ([]Suggestion, error) {
	if len(rawNames) == 0 {
		return nil, nil
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: s.buildPrompt(rawNames)}},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(cleanModelJSON(rawText)), &suggestions); err != nil {
		return nil, fmt.Errorf("unmarshal suggestions: %w", err)
	}

	return validSuggestions(suggestions, s.categories), nil
}

func (s *Suggester) buildPrompt(rawNames []string) string {
	var b strings.Builder
	b.WriteString("You are a merchant name normalizer for a personal finance tracker.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- For each raw merchant string below, produce a clean human-readable display name and pick a spending category.\n")
	b.WriteString("- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n")
	b.WriteString("- Output a JSON array of objects with fields \"raw_name\", \"display_name\", \"category\".\n\n")

	b.WriteString("Allowed categories:\n")
	for _, c := range s.categories {
		b.WriteString("- ")
		b.WriteString(c)
		b.WriteString("\n")
	}

	b.WriteString("\nRaw merchant strings:\n")
	for _, n := range rawNames {
		b.WriteString("- ")
		b.WriteString(n)
		b.WriteString("\n")
	}

	b.WriteString("\nRules:\n")
	b.WriteString("- \"raw_name\" must be the input string unchanged.\n")
	b.WriteString("- Strip payment-processor prefixes and store numbers from display names.\n")
	b.WriteString("- Use \"" + core.CategoryFallback + "\" when no category clearly fits.\n")
	b.WriteString("Return ONLY valid raw JSON.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Output must begin with \"[\" and end with \"]\".\n")

	return b.String()
}

// validSuggestions drops entries with missing fields and forces
// unknown categories to the fallback.
func validSuggestions(in []Suggestion, categories []string) []Suggestion {
	allowed := make(map[string]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}

	out := in[:0]
	for _, sg := range in {
		if sg.RawName == "" || sg.DisplayName == "" {
			continue
		}
		if !allowed[sg.Category] {
			sg.Category = core.CategoryFallback
		}
		out = append(out, sg)
	}
	return out
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Keep only the span from the first '[' to the last ']' in case the
	// model wrapped the array in prose anyway.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
