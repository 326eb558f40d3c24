package filler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gtheme/gtheme/internal/theme"
)

func TestFill(t *testing.T) {
	colours := map[string]string{
		"background":           "2e3440",
		"foreground":           "d8dee9",
		"selection-background": "e5e8f0",
		"selection-foreground": "3b4252",
		"red":                  "bf616a",
	}

	tests := []struct {
		name     string
		content  string
		inverted bool
		want     string
	}{
		{
			name:    "plain substitution",
			content: "fg=%foreground% bg=%background%",
			want:    "fg=d8dee9 bg=2e3440",
		},
		{
			name:     "inverted swaps foreground and background",
			content:  "fg=%foreground% bg=%background%",
			inverted: true,
			want:     "fg=2e3440 bg=d8dee9",
		},
		{
			name:     "inverted swaps selection pair",
			content:  "sf=%selection-foreground% sb=%selection-background%",
			inverted: true,
			want:     "sf=e5e8f0 sb=3b4252",
		},
		{
			name:     "inverted without inverted roles is unchanged",
			content:  "red=#%red%",
			inverted: true,
			want:     "red=#bf616a",
		},
		{
			name:    "unknown role stays verbatim",
			content: "%red% %cyan% 100%",
			want:    "bf616a %cyan% 100%",
		},
		{
			name:    "repeated placeholders",
			content: "%red%%red%0x%red%",
			want:    "bf616abf616a0xbf616a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fill(tt.content, colours, tt.inverted); got != tt.want {
				t.Errorf("Fill() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFill_InvertedPartnerMissing(t *testing.T) {
	got := Fill("%foreground%/%background%", map[string]string{"foreground": "ffffff"}, true)
	if got != "%foreground%/ffffff" {
		t.Errorf("unexpected fill %q", got)
	}
}

func TestFill_Idempotent(t *testing.T) {
	values := map[string]string{"background": "000000", "foreground": "ffffff"}
	content := "a=%background% b=%foreground% c=%missing%"
	once := Fill(content, values, false)
	if twice := Fill(content, values, false); twice != once {
		t.Errorf("fill is not deterministic: %q vs %q", once, twice)
	}
}

func TestValues(t *testing.T) {
	th := &theme.Theme{
		Name:   "Nord",
		Colors: map[string]string{"background": "2e3440"},
	}

	values := Values(th, map[string]string{"font": "Iosevka", "background": "ffffff"})
	if values["background"] != "2e3440" {
		t.Errorf("theme colour should win over properties, got %q", values["background"])
	}
	if values["font"] != "Iosevka" {
		t.Errorf("expected property to be available, got %q", values["font"])
	}
	if values[ThemeNameRole] != "Nord" {
		t.Errorf("expected theme-name Nord, got %q", values[ThemeNameRole])
	}

	th.Colors[ThemeNameRole] = "custom"
	if v := Values(th, nil)[ThemeNameRole]; v != "custom" {
		t.Errorf("palette defined theme-name should be kept, got %q", v)
	}
}

func TestWrite_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.conf")
	if err := Write(path, "content"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("unexpected content %q", data)
	}
}
