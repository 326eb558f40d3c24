package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/gtheme/gtheme/internal/colour"
)

// swatcher renders palette entries as coloured blocks. Styling degrades to
// plain text when the writer is not a colour terminal.
type swatcher struct {
	r *lipgloss.Renderer
}

func newSwatcher(w io.Writer) *swatcher {
	return &swatcher{r: lipgloss.NewRenderer(w)}
}

// render returns hex drawn on its own colour, with a label colour picked for
// contrast. Values that are not valid hex colours are returned unstyled.
func (s *swatcher) render(hex string) string {
	rgb, err := colour.ParseHex(hex)
	if err != nil {
		return hex
	}

	fg := lipgloss.Color("#000000")
	if colour.IsDark(rgb) {
		fg = lipgloss.Color("#ffffff")
	}
	return s.r.NewStyle().
		Background(lipgloss.Color(rgb.Hex())).
		Foreground(fg).
		Padding(0, 1).
		Render(rgb.Hex())
}
