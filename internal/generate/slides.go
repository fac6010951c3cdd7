package generate

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/slidecast/internal/extract"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
	"github.com/nguyentantai21042004/slidecast/internal/observability"
)

// Slides asks a text model for slide JSON and parses it. One request per job.
type Slides struct {
	model      TextModel
	slideCount int
	logger     logger.Logger
}

// NewSlides creates the generator for the slides strategy.
func NewSlides(model TextModel, slideCount int, log logger.Logger) *Slides {
	return &Slides{
		model:      model,
		slideCount: slideCount,
		logger:     log,
	}
}

func (s *Slides) Generate(ctx context.Context, req Request, progress Progress) (Result, error) {
	ctx, span := observability.StartSpan(ctx, "gemini.generate_content")
	reply, err := s.model.GenerateText(ctx, buildPrompt(slidesPrompt, req, s.slideCount))
	observability.EndSpan(span, err)
	if err != nil {
		return Result{Turns: 1}, fmt.Errorf("generate slides: %w", err)
	}
	report(ctx, progress, toolTurnPercent)

	presentation, err := extract.ParseSlides(reply)
	if err != nil {
		s.logger.Debug(ctx, "Unparseable slide reply: %.500s", reply)
		return Result{Turns: 1}, fmt.Errorf("parse slides: %w", err)
	}

	s.logger.Info(ctx, "Parsed %d slides", len(presentation.Slides))
	return Result{Presentation: &presentation, Turns: 1}, nil
}
