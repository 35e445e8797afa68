package ui

import (
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/meridianhq/meridian-console/internal/session"
)

// Theme defines UI color tokens used across widgets and text tags.
type Theme struct {
	// Widget colors
	Bg          tcell.Color
	Surface     tcell.Color
	Border      tcell.Color
	FocusBorder tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	TextPrimary tcell.Color
	TextMuted   tcell.Color
	Accent      tcell.Color
	Header      tcell.Color

	// Table colors
	TableHeader   tcell.Color
	TableHeaderBg tcell.Color
	TableRow      tcell.Color
	TableRowMuted tcell.Color

	// Risk tiers (widgets)
	RiskCritical tcell.Color
	RiskHigh     tcell.Color
	RiskMedium   tcell.Color
	RiskLow      tcell.Color

	// Text tag colors (for tview dynamic color markup)
	TagTextPrimary  string
	TagMuted        string
	TagAccent       string
	TagSuccess      string
	TagWarning      string
	TagError        string
	TagRiskCritical string
	TagRiskHigh     string
	TagRiskMedium   string
	TagRiskLow      string
}

func hex(s string) tcell.Color { return tcell.GetColor(s) }

func themeDark() Theme {
	return Theme{
		Bg:          hex("#0e1116"),
		Surface:     hex("#12161e"),
		Border:      hex("#2b3240"),
		FocusBorder: hex("#4aa8ff"),
		SelectionBg: hex("#2b3240"),
		SelectionFg: hex("#cfd8e3"),
		TextPrimary: hex("#e6edf3"),
		TextMuted:   hex("#8a939f"),
		Accent:      hex("#2dd4bf"),
		Header:      hex("#eab308"),

		TableHeader:   hex("#eab308"),
		TableHeaderBg: hex("#1a2332"),
		TableRow:      hex("#e6edf3"),
		TableRowMuted: hex("#94a3b8"),

		RiskCritical: hex("#ff5f5f"),
		RiskHigh:     hex("#ffaf5f"),
		RiskMedium:   hex("#ffd75f"),
		RiskLow:      hex("#87ffaf"),

		TagTextPrimary:  "#e6edf3",
		TagMuted:        "#8a939f",
		TagAccent:       "#2dd4bf",
		TagSuccess:      "#22c55e",
		TagWarning:      "#f59e0b",
		TagError:        "#ef4444",
		TagRiskCritical: "#ff5f5f",
		TagRiskHigh:     "#ffaf5f",
		TagRiskMedium:   "#ffd75f",
		TagRiskLow:      "#87ffaf",
	}
}

func themeLight() Theme {
	return Theme{
		Bg:          hex("#f6f8fa"),
		Surface:     hex("#ffffff"),
		Border:      hex("#d0d7de"),
		FocusBorder: hex("#1f6feb"),
		SelectionBg: hex("#e2e8f0"),
		SelectionFg: hex("#111827"),
		TextPrimary: hex("#111827"),
		TextMuted:   hex("#6b7280"),
		Accent:      hex("#2563eb"),
		Header:      hex("#1f2937"),

		TableHeader:   hex("#1f2937"),
		TableHeaderBg: hex("#e5e7eb"),
		TableRow:      hex("#111827"),
		TableRowMuted: hex("#6b7280"),

		RiskCritical: hex("#dc2626"),
		RiskHigh:     hex("#f97316"),
		RiskMedium:   hex("#ca8a04"),
		RiskLow:      hex("#16a34a"),

		TagTextPrimary:  "#111827",
		TagMuted:        "#6b7280",
		TagAccent:       "#2563eb",
		TagSuccess:      "#15803d",
		TagWarning:      "#b45309",
		TagError:        "#b91c1c",
		TagRiskCritical: "#dc2626",
		TagRiskHigh:     "#f97316",
		TagRiskMedium:   "#ca8a04",
		TagRiskLow:      "#16a34a",
	}
}

func themeHighContrast() Theme {
	return Theme{
		Bg:          tcell.ColorBlack,
		Surface:     tcell.ColorBlack,
		Border:      tcell.ColorWhite,
		FocusBorder: hex("#ffff00"),
		SelectionBg: tcell.ColorWhite,
		SelectionFg: tcell.ColorBlack,
		TextPrimary: tcell.ColorWhite,
		TextMuted:   hex("#cccccc"),
		Accent:      hex("#00ffff"),
		Header:      tcell.ColorWhite,

		TableHeader:   tcell.ColorWhite,
		TableHeaderBg: tcell.ColorBlack,
		TableRow:      tcell.ColorWhite,
		TableRowMuted: hex("#cccccc"),

		RiskCritical: hex("#ff0000"),
		RiskHigh:     hex("#ff8800"),
		RiskMedium:   hex("#ffff00"),
		RiskLow:      hex("#00ff00"),

		TagTextPrimary:  "#ffffff",
		TagMuted:        "#cccccc",
		TagAccent:       "#00ffff",
		TagSuccess:      "#00ff00",
		TagWarning:      "#ffff00",
		TagError:        "#ff0000",
		TagRiskCritical: "#ff0000",
		TagRiskHigh:     "#ff8800",
		TagRiskMedium:   "#ffff00",
		TagRiskLow:      "#00ff00",
	}
}

var themes = map[string]func() Theme{
	"dark":          themeDark,
	"light":         themeLight,
	"high-contrast": themeHighContrast,
}

var themeOrder = []string{"dark", "light", "high-contrast"}

func themeByName(name string) (Theme, bool) {
	if build, ok := themes[name]; ok {
		return build(), true
	}
	return Theme{}, false
}

// resolveTheme maps the configured theme name to a palette. "auto" (or
// anything unknown) picks dark on true-color terminals and
// high-contrast elsewhere, where the hex palettes quantize badly.
func resolveTheme(name string, trueColor bool) (string, Theme) {
	if theme, ok := themeByName(name); ok {
		return name, theme
	}
	if trueColor {
		return "dark", themeDark()
	}
	return "high-contrast", themeHighContrast()
}

func detectTrueColor() bool {
	if os.Getenv("COLORTERM") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "truecolor") || strings.Contains(term, "24bit") || strings.Contains(term, "256color")
}

// riskTag returns the markup color tag for a risk score.
func (t Theme) riskTag(score float64) string {
	switch session.Tier(score) {
	case 0:
		return t.TagRiskLow
	case 1:
		return t.TagRiskMedium
	case 2:
		return t.TagRiskHigh
	default:
		return t.TagRiskCritical
	}
}

// riskLevelTag returns the markup color tag for a named risk level.
func (t Theme) riskLevelTag(level string) string {
	switch session.RiskLevel(strings.ToUpper(strings.TrimSpace(level))) {
	case session.RiskLow:
		return t.TagRiskLow
	case session.RiskMedium:
		return t.TagRiskMedium
	case session.RiskHigh:
		return t.TagRiskHigh
	case session.RiskCritical:
		return t.TagRiskCritical
	default:
		return t.TagMuted
	}
}

// riskLevelColor is the cell-color counterpart of riskLevelTag, keyed
// on the stored level string rather than a score.
func (t Theme) riskLevelColor(level string) tcell.Color {
	switch session.RiskLevel(strings.ToUpper(strings.TrimSpace(level))) {
	case session.RiskLow:
		return t.RiskLow
	case session.RiskMedium:
		return t.RiskMedium
	case session.RiskHigh:
		return t.RiskHigh
	case session.RiskCritical:
		return t.RiskCritical
	default:
		return t.TableRowMuted
	}
}

func (t Theme) riskColor(score float64) tcell.Color {
	switch session.Tier(score) {
	case 0:
		return t.RiskLow
	case 1:
		return t.RiskMedium
	case 2:
		return t.RiskHigh
	default:
		return t.RiskCritical
	}
}
