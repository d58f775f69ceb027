package engine

import (
	"context"
	"strings"
)

// Request is one transcription job.
type Request struct {
	AudioPath string
	BeamSize  int
	// InitialPrompt biases decoding toward keeping disfluencies verbatim.
	InitialPrompt string
	Language      string
}

// Segment is one span of recognized text.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Engine is a loaded speech-to-text model.
type Engine interface {
	Transcribe(ctx context.Context, req Request) ([]Segment, error)
	Close() error
}

// Opener loads an Engine for a configuration.
type Opener interface {
	Open(ctx context.Context, cfg ModelConfig) (Engine, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, cfg ModelConfig) (Engine, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, cfg ModelConfig) (Engine, error) {
	return f(ctx, cfg)
}

// JoinSegments concatenates segment text with single spaces and trims the result.
func JoinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
