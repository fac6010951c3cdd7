package generate

import (
	"fmt"
	"strings"
)

const deckPrompt = `You are turning a recorded lecture into a presentation.

TRANSCRIPT:
%s

NOTES FROM THE LECTURER:
%s

Create a %d-slide PowerPoint (.pptx) that covers the lecture in order. Give every slide a
short title, 3-5 concise bullets and speaker notes drawn from the transcript. Save the final
file to the outputs directory so it can be downloaded.`

const slidesPrompt = `You are turning a recorded lecture into presentation slides.

TRANSCRIPT:
%s

NOTES FROM THE LECTURER:
%s

Produce exactly %d slides that follow the order of the lecture. Reply with JSON only, no
prose, in this shape:
{"slides":[{"title":"...","bullets":["...","..."],"notes":"speaker notes","layout":"title|content|section"}]}`

func buildPrompt(template string, req Request, slideCount int) string {
	return fmt.Sprintf(template, strings.TrimSpace(req.Transcript), strings.TrimSpace(req.Notes), slideCount)
}
