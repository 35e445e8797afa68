package importer

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/meridian-console/internal/bus"
	"github.com/meridianhq/meridian-console/internal/store"
)

const sampleReport = `{
	"investigation_id": "inv-123",
	"target_name": "Acme Holdings Ltd",
	"overall_risk_score": 6.4,
	"risk_level": "HIGH",
	"summary": "Multiple offshore intermediaries.",
	"red_flags": ["shell subsidiary in opaque jurisdiction"],
	"recommended_actions": ["request beneficial ownership records"],
	"agent_findings": [],
	"started_at": "2026-08-01T10:00:00Z",
	"completed_at": "2026-08-01T10:04:30Z"
}`

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImporterScanOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "acme.json", sampleReport)
	writeFile(t, dir, "notes.txt", "not a report")
	writeFile(t, dir, "broken.json", "{nope")

	st := newTestStore(t)
	im := New(st, bus.NewNullBus(log.Default()), Options{Dir: dir})

	require.NoError(t, im.Run(context.Background()))
	assert.Equal(t, 1, im.Imported())

	rec, err := st.GetReport(context.Background(), "inv-123")
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings Ltd", rec.TargetName)
	assert.InDelta(t, 6.4, rec.OverallScore, 0.001)
}

func TestImporterArchivesFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "acme.json", sampleReport)

	st := newTestStore(t)
	im := New(st, bus.NewNullBus(log.Default()), Options{Dir: dir})
	require.NoError(t, im.Run(context.Background()))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(path + importedSuffix)
	assert.NoError(t, err)
}

func TestImporterSkipsAlreadyImported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "acme.imported.json", sampleReport)

	st := newTestStore(t)
	im := New(st, bus.NewNullBus(log.Default()), Options{Dir: dir})
	require.NoError(t, im.Run(context.Background()))
	assert.Equal(t, 0, im.Imported())
}

func TestReadReportFileRequiresTarget(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "anon.json", `{"investigation_id":"x"}`)

	_, err := ReadReportFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target_name")
}

func TestImporterMintsMissingID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pasted.json", `{"target_name": "Borealis Partners", "overall_risk_score": 3.1, "risk_level": "MEDIUM"}`)

	st := newTestStore(t)
	im := New(st, bus.NewNullBus(log.Default()), Options{Dir: dir})

	require.NoError(t, im.Run(context.Background()))
	require.Equal(t, 1, im.Imported())

	recs, err := st.ListReports(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Borealis Partners", recs[0].TargetName)
	assert.NotEmpty(t, recs[0].InvestigationID)
}

func TestImporterMissingDir(t *testing.T) {
	st := newTestStore(t)
	im := New(st, bus.NewNullBus(log.Default()), Options{Dir: "/no/such/dir"})
	assert.Error(t, im.Run(context.Background()))
}
