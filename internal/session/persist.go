package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/msdcl/nlq-console/internal/api"

	// sqlite driver for the local state database.
	_ "modernc.org/sqlite"
)

// SQLitePersister stores the persisted session subset in a local SQLite
// database. It is the durable analogue of the browser's local storage
// record: one row of presentation state plus the history table.
type SQLitePersister struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the state database at path and runs any
// pending migrations. Use ":memory:" for tests.
func OpenSQLite(path string) (*SQLitePersister, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping state database: %w", err)
	}

	p := &SQLitePersister{db: db, path: path}
	if err := p.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return p, nil
}

// Close closes the state database.
func (p *SQLitePersister) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

// Load reads the persisted snapshot. A fresh database yields a nil
// snapshot so the store falls back to defaults.
func (p *SQLitePersister) Load() (*Snapshot, error) {
	snap := &Snapshot{Settings: DefaultSettings()}

	var settingsJSON string
	err := p.db.QueryRow(
		`SELECT language, theme, font_size, settings FROM session_state WHERE id = 1`,
	).Scan(&snap.Language, &snap.Theme, &snap.FontSize, &settingsJSON)
	switch {
	case err == sql.ErrNoRows:
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("load session state: %w", err)
	}

	if err := json.Unmarshal([]byte(settingsJSON), &snap.Settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}

	rows, err := p.db.Query(
		`SELECT id, timestamp, type, query, result, error, language
		 FROM query_history ORDER BY position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var e HistoryEntry
		var entryType string
		var resultJSON, errText, lang sql.NullString
		if err := rows.Scan(&e.ID, &e.Timestamp, &entryType, &e.Query, &resultJSON, &errText, &lang); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.Type = EntryType(entryType)
		e.Error = errText.String
		e.Language = lang.String
		if resultJSON.Valid && resultJSON.String != "" {
			var r api.QueryResponse
			if err := json.Unmarshal([]byte(resultJSON.String), &r); err == nil {
				e.Result = &r
			}
		}
		snap.History = append(snap.History, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	return snap, nil
}

// Save replaces the persisted snapshot wholesale in one transaction.
func (p *SQLitePersister) Save(snap *Snapshot) error {
	settingsJSON, err := json.Marshal(snap.Settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO session_state (id, language, theme, font_size, settings, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   language = excluded.language,
		   theme = excluded.theme,
		   font_size = excluded.font_size,
		   settings = excluded.settings,
		   updated_at = excluded.updated_at`,
		snap.Language, snap.Theme, snap.FontSize, string(settingsJSON), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save session state: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM query_history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO query_history (id, position, timestamp, type, query, result, error, language)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, e := range snap.History {
		var resultJSON any
		if e.Result != nil {
			raw, err := json.Marshal(e.Result)
			if err != nil {
				return fmt.Errorf("encode history result: %w", err)
			}
			resultJSON = string(raw)
		}
		if _, err := stmt.Exec(e.ID, i, e.Timestamp, string(e.Type), e.Query, resultJSON, e.Error, e.Language); err != nil {
			return fmt.Errorf("save history entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}
