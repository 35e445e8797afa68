package report

import (
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/meridianhq/meridian-console/internal/session"
)

// Filename derives a stable export filename from the record, e.g.
// "meridian_acme_holdings_20260829-1504.txt".
func Filename(rec session.HistoryRecord, now time.Time) string {
	slug := slugify(rec.TargetName)
	if slug == "" {
		slug = "investigation"
	}
	return "meridian_" + slug + "_" + now.Format("20060102-1504") + ".txt"
}

// WriteFile renders rec and writes it to path.
func WriteFile(path string, rec session.HistoryRecord) error {
	return os.WriteFile(path, []byte(Render(rec)), 0644)
}

func slugify(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}
