package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintBanner outputs the FlowCanvas ASCII art banner.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  ___ _             ___                       ", "#10b981"},
		{" | __| |_____ __ __/ __|__ _ _ ___ ____ _ ___ ", "#06b6d4"},
		{" | _|| / _ \\ V  V / (__/ _` | ' \\ V / _` (_-< ", "#3b82f6"},
		{" |_| |_\\___/\\_/\\_/ \\___\\__,_|_||_\\_/\\__,_/__/ ", "#667eea"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// PrintCatalog lists the palette, each entry tinted with its node color.
func PrintCatalog(w io.Writer, entries []domain.NodeTypeDescriptor) {
	p := termenv.ColorProfile()
	for _, d := range entries {
		swatch := termenv.String("●").Foreground(p.Color(d.Color))
		label := termenv.String(fmt.Sprintf("%-13s", d.Label)).Bold()
		fmt.Fprintf(w, " %s %s %-10s %s\n", swatch, label, d.Type, d.Description)
	}
}
