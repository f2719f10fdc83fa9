package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// RenderService turns a raw model completion into HTML for display,
// editing, and PDF export.
type RenderService struct {
	md goldmark.Markdown
}

func NewRenderService() *RenderService {
	return &RenderService{
		// Raw HTML must pass through because Render injects <br> tags
		// before the markdown transform runs.
		md: goldmark.New(
			goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
		),
	}
}

// Render replaces every newline with an explicit line break, then runs
// the markdown transform. Apply it exactly once per raw generation: a
// second pass would escape the breaks it inserted.
func (s *RenderService) Render(raw string) (string, error) {
	withBreaks := strings.ReplaceAll(raw, "\n", "<br>")

	buf := &bytes.Buffer{}
	if err := s.md.Convert([]byte(withBreaks), buf); err != nil {
		return "", fmt.Errorf("markdown transform: %w", err)
	}

	// The input collapses to a single block (every newline became <br>),
	// so the only residual newline is the transform's trailing one.
	return strings.TrimSpace(buf.String()), nil
}
