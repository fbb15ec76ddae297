package logic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	text   string
	err    error
	prompt string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.text, g.err
}

func TestSuggestUsesModelOutput(t *testing.T) {
	gen := &stubGenerator{text: `{"suggestions": [5, 25, 75]}`}
	s := NewSuggestionLogic(gen)

	got := s.Suggest(context.Background(), "Clean water", "Wells", 500)
	assert.Equal(t, []uint64{5, 25, 75}, got)
	assert.Contains(t, gen.prompt, "Clean water")
	assert.Contains(t, gen.prompt, "500 SUI")
}

func TestSuggestAcceptsFencedJSON(t *testing.T) {
	s := NewSuggestionLogic(&stubGenerator{text: "```json\n{\"suggestions\": [1, 2, 3]}\n```"})
	assert.Equal(t, []uint64{1, 2, 3}, s.Suggest(context.Background(), "t", "d", 10))
}

func TestSuggestFallback(t *testing.T) {
	cases := map[string]TextGenerator{
		"no generator": nil,
		"error":        &stubGenerator{err: errors.New("quota exceeded")},
		"not json":     &stubGenerator{text: "give 10"},
		"two amounts":  &stubGenerator{text: `{"suggestions": [1, 2]}`},
		"fractional":   &stubGenerator{text: `{"suggestions": [1.5, 2, 3]}`},
		"negative":     &stubGenerator{text: `{"suggestions": [-1, 2, 3]}`},
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			s := NewSuggestionLogic(gen)
			assert.Equal(t, []uint64{10, 50, 100}, s.Suggest(context.Background(), "t", "d", 1000))
		})
	}
}

func TestFallbackClampedToGoal(t *testing.T) {
	s := NewSuggestionLogic(nil)
	assert.Equal(t, []uint64{10, 30, 30}, s.Suggest(context.Background(), "t", "d", 30))
	assert.Equal(t, []uint64{0, 0, 0}, s.Suggest(context.Background(), "t", "d", 0))
}

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", "")
	require.Error(t, err)
}
