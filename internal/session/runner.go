package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/msdcl/nlq-console/internal/api"
)

// ErrBusy is returned when a submission arrives while another query is
// in flight. Such submissions are dropped, not queued.
var ErrBusy = errors.New("a query is already being processed")

// Runner drives the submission pipeline: it gates on the processing
// flag, records the user turn, calls the backend, and records the
// result or error in both the current slot and the history transcript.
type Runner struct {
	Store  *Store
	Client *api.Client
	Logger *slog.Logger
}

// NewRunner wires a runner over the shared store and API client.
func NewRunner(store *Store, client *api.Client, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{Store: store, Client: client, Logger: logger}
}

// Run submits one natural-language query. While a query is in flight any
// further call returns ErrBusy without touching history or the network.
//
// No request-generation guard exists: a response always overwrites the
// current result or error slot when it resolves.
func (r *Runner) Run(ctx context.Context, query string) (*api.QueryResponse, error) {
	if !r.Store.TryBeginProcessing() {
		return nil, ErrBusy
	}
	defer r.Store.SetProcessing(false)

	lang := r.Store.Language()
	settings := r.Store.Settings()

	r.Store.SetCurrentQuery(query)
	r.Store.AddToHistory(HistoryEntry{
		Type:     EntryUser,
		Query:    query,
		Language: lang,
	})

	resp, err := r.Client.Query(ctx, api.QueryRequest{
		Query:    query,
		Language: lang,
		Options: api.QueryOptions{
			IncludeExplanation:      settings.ShowExplanation,
			ValidateBeforeExecution: true,
			MaxResults:              settings.MaxResults,
		},
	})
	if err != nil {
		r.Logger.Warn("query failed", "err", err)
		r.Store.SetQueryError(err.Error())
		r.Store.AddToHistory(HistoryEntry{
			Type:     EntryError,
			Query:    query,
			Error:    err.Error(),
			Language: lang,
		})
		return nil, err
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "The query could not be answered."
		}
		r.Logger.Warn("query rejected", "err", msg)
		r.Store.SetQueryError(msg)
		r.Store.AddToHistory(HistoryEntry{
			Type:     EntryError,
			Query:    query,
			Error:    msg,
			Language: lang,
		})
		return nil, errors.New(msg)
	}

	r.Store.SetCurrentResult(resp)
	r.Store.AddToHistory(HistoryEntry{
		Type:     EntryBot,
		Query:    query,
		Result:   resp,
		Language: lang,
	})
	return resp, nil
}

// ExecuteSQL runs a SQL statement through the same gate and recording
// pipeline as a natural-language query.
func (r *Runner) ExecuteSQL(ctx context.Context, sqlText string) (*api.QueryResponse, error) {
	if !r.Store.TryBeginProcessing() {
		return nil, ErrBusy
	}
	defer r.Store.SetProcessing(false)

	settings := r.Store.Settings()
	resp, err := r.Client.ExecuteSQL(ctx, sqlText, api.QueryOptions{
		MaxResults: settings.MaxResults,
	})
	if err != nil {
		r.Store.SetQueryError(err.Error())
		r.Store.AddToHistory(HistoryEntry{
			Type:  EntryError,
			Query: sqlText,
			Error: err.Error(),
		})
		return nil, err
	}

	r.Store.SetCurrentResult(resp)
	r.Store.AddToHistory(HistoryEntry{
		Type:   EntryBot,
		Query:  sqlText,
		Result: resp,
	})
	return resp, nil
}
