package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown text into HTML
type Renderer interface {
	Render(src string) (string, error)
}

// Goldmark Renderer implementation, raw HTML in the source is escaped
type Goldmark struct {
	md goldmark.Markdown
}

var _ Renderer = &Goldmark{}

// NewGoldmark create a GFM renderer with code highlighting
func NewGoldmark() *Goldmark {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("monokai"),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	return &Goldmark{md: md}
}

// Render implement Renderer
func (g *Goldmark) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
