package cmd

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	out, err := renderMarkdown("# Gains\n\nsome text\n", 40)
	if err != nil {
		t.Fatalf("renderMarkdown: %v", err)
	}
	if !strings.Contains(out, "Gains") {
		t.Errorf("rendered output lost the heading: %q", out)
	}
}

func TestTerminalWidthFallback(t *testing.T) {
	if got := terminalWidth(-1); got != 80 {
		t.Errorf("terminalWidth(-1) = %d, want the 80-column fallback", got)
	}
}
