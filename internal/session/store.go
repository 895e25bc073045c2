// Package session holds the client-side session state: query history,
// in-flight status, the current result or error, and user settings.
//
// The store is the only shared mutable resource in the application. A
// defined subset of its fields (history, language, theme, font size,
// settings) is written to durable local state on every mutation and
// rehydrated at startup; everything else is session-only.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/msdcl/nlq-console/internal/api"
)

// MaxHistory caps the history sequence; oldest entries are evicted first.
const MaxHistory = 100

// EntryType classifies a history entry.
type EntryType string

const (
	EntryUser  EntryType = "user"
	EntryBot   EntryType = "bot"
	EntryError EntryType = "error"
)

// HistoryEntry is one record of the session transcript, newest first.
type HistoryEntry struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Type      EntryType          `json:"type"`
	Query     string             `json:"query"`
	Result    *api.QueryResponse `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	Language  string             `json:"language,omitempty"`
}

// View selects which surface the UI shows.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewChat      View = "chat"
)

// Settings is the flat record of user toggles. Mutated only through
// UpdateSettings.
type Settings struct {
	AutoExecute       bool   `json:"autoExecute"`
	ShowExplanation   bool   `json:"showExplanation"`
	MaxResults        int    `json:"maxResults"`
	EnableSuggestions bool   `json:"enableSuggestions"`
	EnableCharts      bool   `json:"enableCharts"`
	ChartType         string `json:"chartType"`
}

// SettingsPatch carries a partial settings update; nil fields keep
// their prior values.
type SettingsPatch struct {
	AutoExecute       *bool   `json:"autoExecute,omitempty"`
	ShowExplanation   *bool   `json:"showExplanation,omitempty"`
	MaxResults        *int    `json:"maxResults,omitempty"`
	EnableSuggestions *bool   `json:"enableSuggestions,omitempty"`
	EnableCharts      *bool   `json:"enableCharts,omitempty"`
	ChartType         *string `json:"chartType,omitempty"`
}

// DefaultSettings returns the initial settings record.
func DefaultSettings() Settings {
	return Settings{
		AutoExecute:       true,
		ShowExplanation:   true,
		MaxResults:        1000,
		EnableSuggestions: true,
		EnableCharts:      true,
		ChartType:         "table",
	}
}

// Defaults for the persisted presentation fields.
const (
	DefaultLanguage = "en"
	DefaultTheme    = "light"
	DefaultFontSize = 14
)

// Snapshot is the persisted subset of the session state.
type Snapshot struct {
	History  []HistoryEntry
	Language string
	Theme    string
	FontSize int
	Settings Settings
}

// Persister saves and loads the persisted subset of session state.
type Persister interface {
	Load() (*Snapshot, error)
	Save(*Snapshot) error
	Close() error
}

// Store is the process-wide session state container. All mutations are
// synchronous field replacements under a single mutex; the persisted
// subset is saved after every mutation.
type Store struct {
	mu      sync.Mutex
	persist Persister
	logger  *slog.Logger

	history      []HistoryEntry
	currentQuery string
	processing   bool
	language     string
	theme        string
	fontSize     int
	view         View
	settings     Settings

	// Session-only: at most one of currentResult/queryError is set.
	currentResult *api.QueryResponse
	queryError    string

	// Opaque startup payloads; last value wins.
	schema api.Schema
	health *api.Health

	onChange func()
}

// Defaults seeds a store whose state database has no prior snapshot.
// Zero-value fields keep the built-in defaults; once a snapshot exists
// the persisted values win and the seed is ignored.
type Defaults struct {
	Language string
	Theme    string
	FontSize int
	Settings *Settings
}

// NewStore creates a store with default state. persist may be nil for a
// purely in-memory session (tests, one-shot commands that opt out).
func NewStore(persist Persister) (*Store, error) {
	return NewStoreWithDefaults(persist, Defaults{})
}

// NewStoreWithDefaults creates a store seeded from d when no persisted
// snapshot exists yet.
func NewStoreWithDefaults(persist Persister, d Defaults) (*Store, error) {
	s := &Store{
		persist:  persist,
		logger:   slog.New(slog.DiscardHandler),
		language: DefaultLanguage,
		theme:    DefaultTheme,
		fontSize: DefaultFontSize,
		view:     ViewDashboard,
		settings: DefaultSettings(),
	}

	var snap *Snapshot
	if persist != nil {
		var err error
		snap, err = persist.Load()
		if err != nil {
			return nil, fmt.Errorf("load session state: %w", err)
		}
	}

	if snap != nil {
		s.history = snap.History
		if snap.Language != "" {
			s.language = snap.Language
		}
		if snap.Theme != "" {
			s.theme = snap.Theme
		}
		if snap.FontSize != 0 {
			s.fontSize = snap.FontSize
		}
		s.settings = snap.Settings
		return s, nil
	}

	if d.Language != "" {
		s.language = d.Language
	}
	if d.Theme != "" {
		s.theme = d.Theme
	}
	if d.FontSize != 0 {
		s.fontSize = d.FontSize
	}
	if d.Settings != nil {
		s.settings = *d.Settings
	}
	return s, nil
}

// Close releases the underlying persister.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persist == nil {
		return nil
	}
	return s.persist.Close()
}

// OnChange registers a callback invoked after every mutation, outside
// the store lock. Used by the UI server to ping SSE listeners.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// SetLogger replaces the logger used to report persistence failures.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	s.mu.Lock()
	s.logger = logger
	s.mu.Unlock()
}

// save writes the persisted subset. Must be called with the lock held;
// returns the change callback to invoke after unlocking.
func (s *Store) save() func() {
	if s.persist != nil {
		err := s.persist.Save(&Snapshot{
			History:  s.history,
			Language: s.language,
			Theme:    s.theme,
			FontSize: s.fontSize,
			Settings: s.settings,
		})
		if err != nil {
			s.logger.Warn("persist session state", "err", err)
		}
	}
	return s.onChange
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}

// SetCurrentQuery replaces the current query text.
func (s *Store) SetCurrentQuery(text string) {
	s.mu.Lock()
	s.currentQuery = text
	fn := s.save()
	s.mu.Unlock()
	notify(fn)
}

// CurrentQuery returns the current query text.
func (s *Store) CurrentQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentQuery
}

// SetProcessing replaces the in-flight flag.
func (s *Store) SetProcessing(v bool) {
	s.mu.Lock()
	s.processing = v
	fn := s.onChange
	s.mu.Unlock()
	notify(fn)
}

// IsProcessing reports whether a query is in flight.
func (s *Store) IsProcessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// TryBeginProcessing atomically sets the processing flag. It returns
// false when a query is already in flight; the caller must drop the
// submission in that case (no queueing).
func (s *Store) TryBeginProcessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return false
	}
	s.processing = true
	return true
}

// SetLanguage replaces the query language code.
func (s *Store) SetLanguage(code string) {
	s.mu.Lock()
	s.language = code
	fn := s.save()
	s.mu.Unlock()
	notify(fn)
}

// Language returns the current query language code.
func (s *Store) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// SetTheme replaces the UI theme.
func (s *Store) SetTheme(theme string) {
	s.mu.Lock()
	s.theme = theme
	fn := s.save()
	s.mu.Unlock()
	notify(fn)
}

// Theme returns the UI theme.
func (s *Store) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetFontSize replaces the UI font size.
func (s *Store) SetFontSize(px int) {
	s.mu.Lock()
	s.fontSize = px
	fn := s.save()
	s.mu.Unlock()
	notify(fn)
}

// FontSize returns the UI font size.
func (s *Store) FontSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fontSize
}

// SetView replaces the UI view selector. Session-only.
func (s *Store) SetView(v View) {
	s.mu.Lock()
	s.view = v
	fn := s.onChange
	s.mu.Unlock()
	notify(fn)
}

// CurrentView returns the UI view selector.
func (s *Store) CurrentView() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// AddToHistory assigns an id and timestamp, prepends the entry and
// truncates the sequence to MaxHistory.
func (s *Store) AddToHistory(e HistoryEntry) HistoryEntry {
	e.ID = uuid.NewString()
	e.Timestamp = time.Now().UTC()

	s.mu.Lock()
	s.history = append([]HistoryEntry{e}, s.history...)
	if len(s.history) > MaxHistory {
		s.history = s.history[:MaxHistory]
	}
	fn := s.save()
	s.mu.Unlock()
	notify(fn)
	return e
}

// History returns a copy of the history sequence, newest first.
func (s *Store) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// ClearHistory removes all history entries.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	s.history = nil
	fn := s.save()
	s.mu.Unlock()
	notify(fn)
}

// SetCurrentResult records a result and clears any current error. At
// most one of {result, error} is non-empty at a time.
func (s *Store) SetCurrentResult(r *api.QueryResponse) {
	s.mu.Lock()
	s.currentResult = r
	s.queryError = ""
	fn := s.onChange
	s.mu.Unlock()
	notify(fn)
}

// SetQueryError records an error and clears any current result.
func (s *Store) SetQueryError(msg string) {
	s.mu.Lock()
	s.queryError = msg
	s.currentResult = nil
	fn := s.onChange
	s.mu.Unlock()
	notify(fn)
}

// CurrentResult returns the current result, or nil.
func (s *Store) CurrentResult() *api.QueryResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentResult
}

// QueryError returns the current error message, or "".
func (s *Store) QueryError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryError
}

// UpdateSettings shallow-merges the patch into the settings record;
// unspecified fields retain their prior values.
func (s *Store) UpdateSettings(p SettingsPatch) Settings {
	s.mu.Lock()
	if p.AutoExecute != nil {
		s.settings.AutoExecute = *p.AutoExecute
	}
	if p.ShowExplanation != nil {
		s.settings.ShowExplanation = *p.ShowExplanation
	}
	if p.MaxResults != nil {
		s.settings.MaxResults = *p.MaxResults
	}
	if p.EnableSuggestions != nil {
		s.settings.EnableSuggestions = *p.EnableSuggestions
	}
	if p.EnableCharts != nil {
		s.settings.EnableCharts = *p.EnableCharts
	}
	if p.ChartType != nil {
		s.settings.ChartType = *p.ChartType
	}
	out := s.settings
	fn := s.save()
	s.mu.Unlock()
	notify(fn)
	return out
}

// Settings returns the current settings record.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetSchema caches the startup schema payload.
func (s *Store) SetSchema(schema api.Schema) {
	s.mu.Lock()
	s.schema = schema
	fn := s.onChange
	s.mu.Unlock()
	notify(fn)
}

// Schema returns the cached schema payload, or nil.
func (s *Store) Schema() api.Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schema
}

// SetHealth caches the last health check.
func (s *Store) SetHealth(h *api.Health) {
	s.mu.Lock()
	s.health = h
	fn := s.onChange
	s.mu.Unlock()
	notify(fn)
}

// Health returns the last cached health check, or nil.
func (s *Store) Health() *api.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.health
}

// Reset restores every field to its initial default, including
// settings, and persists the cleared state.
func (s *Store) Reset() {
	s.mu.Lock()
	s.history = nil
	s.currentQuery = ""
	s.processing = false
	s.language = DefaultLanguage
	s.theme = DefaultTheme
	s.fontSize = DefaultFontSize
	s.view = ViewDashboard
	s.settings = DefaultSettings()
	s.currentResult = nil
	s.queryError = ""
	s.schema = nil
	s.health = nil
	fn := s.save()
	s.mu.Unlock()
	notify(fn)
}
