package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	out, err := NewGoldmark().Render("# Arrays\n\n- push\n- pop\n\n<script>alert(1)</script>")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<h1>Arrays</h1>") {
		t.Errorf("missing heading in %q", out)
	}
	if !strings.Contains(out, "<li>push</li>") {
		t.Errorf("missing list in %q", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("raw html must not pass through: %q", out)
	}
}

func TestRenderTable(t *testing.T) {
	out, err := NewGoldmark().Render("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("GFM table not rendered: %q", out)
	}
}
