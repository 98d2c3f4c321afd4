package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Apportion/internal/ahp"
	"github.com/MikeSquared-Agency/Apportion/internal/budget"
	"github.com/MikeSquared-Agency/Apportion/internal/hermes"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestWeightsJSON(t *testing.T) {
	out, _, err := execute(t, "weights", "--json")
	require.NoError(t, err)

	var rows []weightRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 7)
	assert.Equal(t, "Housing", rows[0].Name)
	assert.Equal(t, 0.11614971682497992, rows[0].Weight)

	sum := 0.0
	for _, r := range rows {
		sum += r.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestWeightsRaw(t *testing.T) {
	out, _, err := execute(t, "weights", "--json", "--raw")
	require.NoError(t, err)

	var rows []weightRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, 0.192249266741824, rows[0].Weight)
}

func TestWeightsTable(t *testing.T) {
	out, _, err := execute(t, "weights")
	require.NoError(t, err)
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "Transportation")
	assert.Contains(t, out, "1.000000")
}

func TestWeightsCustomConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apportion.yaml")
	cfg := "model:\n  categories: [Rent, Fun]\n  matrix:\n    - [1, 3]\n    - [0.3333333333333333, 1]\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	out, _, err := execute(t, "weights", "--json", "--config", path)
	require.NoError(t, err)

	var rows []weightRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Rent", rows[0].Name)
	assert.InDelta(t, 0.5, rows[0].Weight, 1e-12)
}

func TestRankCreatesSessionWhenUnset(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/sessions":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{"session_id": id.String()})
		case "/api/v1/categories/Food":
			assert.Equal(t, id.String(), r.Header.Get("X-Session-ID"))
			json.NewEncoder(w).Encode([]budget.Category{{Name: "Food", Rank: 1}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, errOut, err := execute(t, "rank", "Food", "1", "--api", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, errOut, id.String())
	assert.Contains(t, out, "Food")
}

func TestRankRejectsBadArgs(t *testing.T) {
	_, _, err := execute(t, "rank", "Food", "first")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whole number")

	_, _, err = execute(t, "rank", "Food", "1", "--session", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --session")
}

func TestCalculatePrintsWeights(t *testing.T) {
	id := uuid.New()
	w := 0.5
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/weights/calculate", r.URL.Path)
		assert.Equal(t, id.String(), r.Header.Get("X-Session-ID"))
		json.NewEncoder(rw).Encode([]budget.Category{{Name: "Rent", Rank: 1, Weight: &w}})
	}))
	defer srv.Close()

	out, _, err := execute(t, "calculate", "--api", srv.URL, "--session", id.String())
	require.NoError(t, err)
	assert.Contains(t, out, "0.500000")
}

type fakeHermes struct {
	mu       sync.Mutex
	handlers map[string]func(string, []byte)
}

func (f *fakeHermes) Publish(string, interface{}) error { return nil }
func (f *fakeHermes) Subscribe(subject string, handler func(string, []byte)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[subject] = handler
	return nil
}
func (f *fakeHermes) Close() {}

func (f *fakeHermes) snapshot() map[string]func(string, []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]func(string, []byte), len(f.handlers))
	for k, v := range f.handlers {
		out[k] = v
	}
	return out
}

func TestWatchPrintsEvents(t *testing.T) {
	hc := &fakeHermes{handlers: map[string]func(string, []byte){}}
	ctx, cancel := context.WithCancel(context.Background())

	var out, errOut bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- watch(ctx, hc, &out, &errOut) }()

	require.Eventually(t, func() bool { return len(hc.snapshot()) == 3 }, time.Second, 5*time.Millisecond)
	handlers := hc.snapshot()
	handlers[hermes.SubjectRankChangedAll](hermes.SubjectRankChanged("abc"),
		[]byte(`{"session_id":"abc","category":"Housing","old_rank":1,"new_rank":7,"order":["Food","Housing"]}`))
	handlers[hermes.SubjectCalculatedAll](hermes.SubjectWeightsCalculated("abc"),
		[]byte(`{"session_id":"abc","weights":[{"name":"Food","rank":1,"weight":0.25}]}`))
	handlers[hermes.SubjectCreatedAll](hermes.SubjectSessionCreated("abc"), []byte(`{`))
	cancel()
	require.NoError(t, <-done)

	assert.Contains(t, out.String(), "abc rank_changed Housing 1 -> 7 order=Food,Housing")
	assert.Contains(t, out.String(), "abc weights_calculated Food=0.250000")
	assert.Contains(t, errOut.String(), "skip apportion.session.abc.created")
}

func TestCheckReciprocity(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	checkReciprocity(logger, ahp.DefaultMatrix())
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.NotContains(t, buf.String(), "not reciprocal")

	buf.Reset()
	checkReciprocity(logger, ahp.Matrix{{1, 2}, {2, 1}})
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "comparison matrix is not reciprocal")
	assert.Contains(t, buf.String(), "max_deviation=3")
}
