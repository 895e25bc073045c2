package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msdcl/nlq-console/internal/api"
)

func TestRunRecordsUserAndBotEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req api.QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "en", req.Language)
		assert.True(t, req.Options.ValidateBeforeExecution)

		_ = json.NewEncoder(w).Encode(api.QueryResponse{
			Success:      true,
			GeneratedSQL: "SELECT 1",
			Result:       &api.ResultSet{RowCount: 0},
		})
	}))
	defer srv.Close()

	s := newTestStore(t)
	r := NewRunner(s, api.NewClient(srv.URL, nil), nil)

	resp, err := r.Run(context.Background(), "how many orders today")
	require.NoError(t, err)
	assert.True(t, resp.Success)

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, EntryBot, history[0].Type)
	assert.Equal(t, EntryUser, history[1].Type)
	assert.Equal(t, "how many orders today", history[1].Query)
	assert.Same(t, resp, s.CurrentResult())
	assert.False(t, s.IsProcessing())
}

func TestRunRecordsErrorEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := newTestStore(t)
	r := NewRunner(s, api.NewClient(srv.URL, nil), nil)

	_, err := r.Run(context.Background(), "bad question")
	require.Error(t, err)

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, EntryError, history[0].Type)
	assert.NotEmpty(t, history[0].Error)
	assert.Equal(t, history[0].Error, s.QueryError())
	assert.Nil(t, s.CurrentResult())
	assert.False(t, s.IsProcessing())
}

func TestRunBackendRejectionRecordsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(api.QueryResponse{
			Success: false,
			Error:   "could not understand the question",
		})
	}))
	defer srv.Close()

	s := newTestStore(t)
	r := NewRunner(s, api.NewClient(srv.URL, nil), nil)

	_, err := r.Run(context.Background(), "gibberish")
	require.EqualError(t, err, "could not understand the question")
	assert.Equal(t, "could not understand the question", s.QueryError())
}

func TestSecondSubmissionWhileProcessingIsDropped(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		<-release
		_ = json.NewEncoder(w).Encode(api.QueryResponse{Success: true})
	}))
	defer srv.Close()

	s := newTestStore(t)
	r := NewRunner(s, api.NewClient(srv.URL, nil), nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = r.Run(context.Background(), "first")
	}()

	// Wait until the first call is in flight.
	require.Eventually(t, s.IsProcessing, 2*time.Second, 10*time.Millisecond)

	_, err := r.Run(context.Background(), "second")
	require.ErrorIs(t, err, ErrBusy)

	close(release)
	wg.Wait()

	// Only the first submission reached the network and the history.
	assert.Equal(t, int32(1), calls.Load())
	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[1].Query)
}
