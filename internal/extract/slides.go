package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/slidecast/internal/domain"
)

var (
	// ErrNoContent means the provider reply carried no JSON object at all.
	ErrNoContent = errors.New("no slide content in reply")
	// ErrMalformedSlides means a JSON object was found but could not be parsed.
	ErrMalformedSlides = errors.New("malformed slide JSON")
)

// ParseSlides pulls the slide collection out of a raw model reply. Code
// fences are stripped and the first balanced {...} span is decoded.
func ParseSlides(reply string) (domain.Presentation, error) {
	text := stripFences(strings.TrimSpace(reply))
	if text == "" {
		return domain.Presentation{}, ErrNoContent
	}

	span := text
	if !strings.HasPrefix(text, "{") {
		var ok bool
		span, ok = firstObject(text)
		if !ok {
			if strings.Contains(text, "{") {
				return domain.Presentation{}, fmt.Errorf("%w: unbalanced braces", ErrMalformedSlides)
			}
			return domain.Presentation{}, ErrNoContent
		}
	}

	var p domain.Presentation
	if err := json.Unmarshal([]byte(span), &p); err != nil {
		return domain.Presentation{}, fmt.Errorf("%w: %v", ErrMalformedSlides, err)
	}
	if len(p.Slides) == 0 {
		return domain.Presentation{}, fmt.Errorf("%w: empty slides array", ErrMalformedSlides)
	}
	for i := range p.Slides {
		if p.Slides[i].Bullets == nil {
			p.Slides[i].Bullets = []string{}
		}
	}
	return p, nil
}

// stripFences removes a leading ``` or ```json line and a trailing ``` line.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// firstObject returns the first balanced {...} span, honouring JSON strings.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
