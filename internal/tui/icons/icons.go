// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography across different terminal capabilities

package icons

import (
	"os"
	"strings"
	"sync"
)

// nerdFontTerminals are terminals that usually ship with a patched font
var nerdFontTerminals = []string{"iterm.app", "alacritty", "wezterm", "kitty", "ghostty"}

var (
	detectOnce sync.Once
	nerdFonts  bool
)

// detect decides from the environment whether Nerd Font glyphs render.
// AUTOCLICK_NERD_FONTS wins when set; otherwise known terminals opt in.
func detect(getenv func(string) string) bool {
	if v := strings.TrimSpace(getenv("AUTOCLICK_NERD_FONTS")); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	}
	if getenv("NERD_FONTS") == "1" {
		return true
	}

	term := strings.ToLower(getenv("TERM") + " " + getenv("TERM_PROGRAM"))
	for _, t := range nerdFontTerminals {
		if strings.Contains(term, t) {
			return true
		}
	}
	return false
}

// HasNerdFonts reports whether icons render as Nerd Font glyphs
func HasNerdFonts() bool {
	detectOnce.Do(func() {
		nerdFonts = detect(os.Getenv)
	})
	return nerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Nerd Font codepoints with Unicode fallbacks
var (
	// Bot stats
	Status    = Icon{"󰚩", "◉"} // nf-md-robot
	Level     = Icon{"󰜷", "▲"} // nf-md-stairs_up
	Completed = Icon{"󰔸", "★"} // nf-md-trophy
	Target    = Icon{"󰓾", "◎"} // nf-md-target

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	// Controls
	Start      = Icon{"󰐊", "▶"} // nf-md-play
	Stop       = Icon{"󰓛", "■"} // nf-md-stop
	Continue   = Icon{"󰐎", "⏵"} // nf-md-play_pause
	Screenshot = Icon{"󰄀", "◫"} // nf-md-camera
	ZoomIn     = Icon{"󰛭", "+"} // nf-md-magnify_plus
	ZoomOut    = Icon{"󰛬", "-"} // nf-md-magnify_minus

	// Actions
	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Logout  = Icon{"󰍃", "⏏"} // nf-md-logout
	Quit    = Icon{"󰗼", "×"} // nf-md-exit_to_app
	Chart   = Icon{"󰄭", "▁"} // nf-md-chart_line

	// Application
	App  = Icon{"󰚩", "◈"} // nf-md-robot
	Lock = Icon{"󰌾", "⚿"} // nf-md-lock
)
