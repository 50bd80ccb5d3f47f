package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/nguyentantai21042004/slide-narrator/internal/units"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 13
	titleSize = 16
)

// Line is one numbered caption of the exported script.
type Line struct {
	Label string
	Text  string
}

// ScriptLines formats units as "N." labels with their word count and status.
func ScriptLines(list []units.Unit) []Line {
	lines := make([]Line, len(list))
	for i, u := range list {
		lines[i] = Line{
			Label: fmt.Sprintf("%d. (%d words, %s) ", u.Seq, u.WordCount, u.Status),
			Text:  u.Text,
		}
	}
	return lines
}

// WriteScript writes the caption units as a narration script document.
func WriteScript(title, baseName string, list []units.Unit, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, titleSize)
	addStyledRun(doc.AddParagraph(""), "Base name: "+baseName, false, fontSize)
	doc.AddParagraph("")

	for _, line := range ScriptLines(list) {
		p := doc.AddParagraph("")
		addStyledRun(p, line.Label, true, fontSize)
		addStyledRun(p, line.Text, false, fontSize)
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save %s: %w", outputPath, err)
	}
	return nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
