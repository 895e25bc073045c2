package session

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	s := newTestStore(t)
	s.AddToHistory(HistoryEntry{Type: EntryUser, Query: "total revenue last month", Language: "en"})
	s.AddToHistory(HistoryEntry{Type: EntryError, Query: "bad query", Error: "boom"})

	var buf bytes.Buffer
	require.NoError(t, s.ExportHistory(&buf))

	other := newTestStore(t)
	n, err := other.ImportHistory(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, s.History(), other.History())
}

func TestExportEmptyHistoryIsEmptyArray(t *testing.T) {
	s := newTestStore(t)

	var buf bytes.Buffer
	require.NoError(t, s.ExportHistory(&buf))

	var doc []any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Empty(t, doc)
}

func TestImportRejectsNonArray(t *testing.T) {
	s := newTestStore(t)
	s.AddToHistory(HistoryEntry{Type: EntryUser, Query: "keep me"})
	before := s.History()

	_, err := s.ImportHistory(strings.NewReader(`{"queryHistory": []}`))
	require.ErrorIs(t, err, ErrImportFormat)
	assert.Equal(t, before, s.History(), "failed import must leave history unchanged")
}

func TestImportRejectsInvalidJSON(t *testing.T) {
	s := newTestStore(t)
	s.AddToHistory(HistoryEntry{Type: EntryUser, Query: "keep me"})
	before := s.History()

	_, err := s.ImportHistory(strings.NewReader(`[{"id": "x"`))
	require.ErrorIs(t, err, ErrImportParse)
	assert.Equal(t, before, s.History())
}

func TestImportReplacesNotMerges(t *testing.T) {
	s := newTestStore(t)
	s.AddToHistory(HistoryEntry{Type: EntryUser, Query: "old entry"})

	doc := `[{"id":"abc","timestamp":"2026-08-01T10:00:00Z","type":"user","query":"imported"}]`
	n, err := s.ImportHistory(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, "imported", history[0].Query)
	assert.Equal(t, "abc", history[0].ID)
}

func TestImportTruncatesToCap(t *testing.T) {
	entries := make([]HistoryEntry, MaxHistory+10)
	for i := range entries {
		entries[i] = HistoryEntry{ID: "id", Type: EntryUser, Query: "q"}
	}
	raw, err := json.Marshal(entries)
	require.NoError(t, err)

	s := newTestStore(t)
	n, err := s.ImportHistory(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, MaxHistory, n)
	assert.Len(t, s.History(), MaxHistory)
}
