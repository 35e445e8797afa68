package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/meridian-console/internal/session"
)

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 4, 0, 0, time.UTC)

	name := Filename(session.HistoryRecord{TargetName: "Acme Holdings Ltd."}, now)
	assert.Equal(t, "meridian_acme_holdings_ltd_20260829-1504.txt", name)

	// Unnameable targets still get a usable filename.
	name = Filename(session.HistoryRecord{TargetName: "!!!"}, now)
	assert.Equal(t, "meridian_investigation_20260829-1504.txt", name)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	rec := session.HistoryRecord{
		InvestigationID: "inv-1",
		TargetName:      "Acme Holdings",
		OverallScore:    3.2,
	}
	require.NoError(t, WriteFile(path, rec))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Render(rec), string(data))
}
