package preset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/pthm-cable/nebula/config"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-3-flash-preview"

// ErrMissingAPIKey is returned when no API key is available.
var ErrMissingAPIKey = errors.New("preset: generator API key not set")

// ErrEmptyPrompt is returned for blank prompts.
var ErrEmptyPrompt = errors.New("preset: empty prompt")

// Generator produces a config fragment from a free-text description.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Fragment, error)
}

// GeminiGenerator calls the Gemini API with a JSON response schema.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator using the API key stored in the
// environment variable named by cfg.APIKeyEnv.
func NewGeminiGenerator(ctx context.Context, cfg config.GeneratorConfig) (*GeminiGenerator, error) {
	envName := cfg.APIKeyEnv
	if envName == "" {
		envName = "API_KEY"
	}
	apiKey := os.Getenv(envName)
	if apiKey == "" {
		return nil, fmt.Errorf("%w (expected in $%s)", ErrMissingAPIKey, envName)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (Fragment, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Fragment{}, ErrEmptyPrompt
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(prompt)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema(),
	})
	if err != nil {
		return Fragment{}, fmt.Errorf("generating preset: %w", err)
	}

	text := resp.Text()
	slog.Debug("generator response", "model", g.model, "bytes", len(text))
	return ParseFragment([]byte(text))
}

// Prompt wraps a user description in the generation instructions.
func Prompt(description string) string {
	return fmt.Sprintf("Create a particle system configuration for: %q.\n"+
		"Return a configuration that visually matches this description. Include gravity and wind forces.",
		description)
}

// ResponseSchema describes the fragment JSON the model must return.
func ResponseSchema() *genai.Schema {
	number := func(r Range) *genai.Schema {
		return &genai.Schema{
			Type:        genai.TypeNumber,
			Description: fmt.Sprintf("Range %g to %g", r.Min, r.Max),
		}
	}

	tags := make([]string, 0, 5)
	for _, b := range config.Behaviors() {
		tags = append(tags, b.String())
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":     {Type: genai.TypeString},
			"count":    number(CountRange),
			"sizeMin":  number(SizeMinRange),
			"sizeMax":  number(SizeMaxRange),
			"speed":    number(SpeedRange),
			"gravity":  number(GravityRange),
			"wind":     number(WindRange),
			"friction": number(FrictionRange),
			"life":     number(LifeRange),
			"colorRange": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Array of 3-5 hex colors",
			},
			"behavior": {
				Type:        genai.TypeString,
				Enum:        tags,
				Description: "Must be one of: " + strings.Join(tags, ", "),
			},
			"blur": number(BlurRange),
			"glow": {Type: genai.TypeBoolean},
		},
		Required: []string{"name", "count", "colorRange", "behavior"},
	}
}
