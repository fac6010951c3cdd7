package handout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/slidecast/internal/domain"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 12
	titleSize = 18
	slideSize = 14
)

// Render builds a speaker handout: one section per slide with its bullets
// and speaker notes, in slide order.
func Render(title string, p domain.Presentation) ([]byte, error) {
	if len(p.Slides) == 0 {
		return nil, fmt.Errorf("render handout: no slides")
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, titleSize)
	doc.AddParagraph("")

	for i, slide := range p.Slides {
		heading := fmt.Sprintf("Slide %d: %s", i+1, cleanInline(slide.Title))
		addStyledRun(doc.AddParagraph(""), heading, true, slideSize)

		for _, bullet := range slide.Bullets {
			addStyledRun(doc.AddParagraph(""), "• "+cleanInline(bullet), false, fontSize)
		}

		if notes := strings.TrimSpace(slide.Notes); notes != "" {
			para := doc.AddParagraph("")
			para.AddText("Speaker notes: ").Font(fontName).Size(fontSize).Color("444444").Bold(true)
			para.AddText(cleanInline(notes)).Font(fontName).Size(fontSize).Color("444444")
		}
		doc.AddParagraph("")
	}

	// godocx only writes to a path, so stage the file in a private temp dir.
	dir, err := os.MkdirTemp("", "handout-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "handout.docx")
	if err := doc.SaveTo(path); err != nil {
		return nil, fmt.Errorf("save handout: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read handout: %w", err)
	}
	return data, nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func cleanInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return strings.TrimSpace(s)
}
