package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Import failure modes. ErrImportFormat means the document parsed but
// its top level is not an array; ErrImportParse means it did not parse.
var (
	ErrImportFormat = errors.New("history document must be a JSON array")
	ErrImportParse  = errors.New("history document is not valid JSON")
)

// ExportHistory writes the full history sequence as a pretty-printed
// JSON array.
func (s *Store) ExportHistory(w io.Writer) error {
	history := s.History()
	if history == nil {
		history = []HistoryEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(history); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	return nil
}

// ImportHistory replaces the in-memory history wholesale from a JSON
// document. It does not merge. On any failure the existing history is
// left unchanged.
func (s *Store) ImportHistory(r io.Reader) (int, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read history document: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrImportParse, err)
	}
	if _, ok := doc.([]any); !ok {
		return 0, ErrImportFormat
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrImportParse, err)
	}
	if len(entries) > MaxHistory {
		entries = entries[:MaxHistory]
	}
	// Documents produced elsewhere may omit ids; the persistence layer
	// keys history rows on them.
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
	}

	s.mu.Lock()
	s.history = entries
	fn := s.save()
	s.mu.Unlock()
	notify(fn)
	return len(entries), nil
}
