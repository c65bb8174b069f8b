package history

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torosent/reqbench/internal/httpclient"
	"github.com/torosent/reqbench/internal/metrics"
	"github.com/torosent/reqbench/internal/runner"
)

func report(id, variant string, p99 float64) runner.Report {
	return runner.Report{
		RunID:             id,
		Variant:           variant,
		Kind:              httpclient.KindSuspending,
		Target:            "http://127.0.0.1:8000",
		Workers:           10,
		RequestsPerWorker: 100,
		Started:           time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		Summary:           metrics.Stats{Count: 1000, Mean: 0.4, P99: p99, P999: 1.5, Max: 2.0},
	}
}

func TestAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	require.NoError(t, Append(path, "Go", report("a", "nethttp", 0.9)))
	require.NoError(t, Append(path, "Go", report("b", "rawtcp", 1.1)))
	require.NoError(t, Append(path, "Go", report("c", "nethttp", 0.8)))

	all, err := Read(path, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].RunID, all[1].RunID, all[2].RunID})

	first := all[0]
	assert.Equal(t, "Go", first.Language)
	assert.Equal(t, "suspending", first.Kind)
	assert.Equal(t, 10, first.Workers)
	assert.Equal(t, 100, first.RequestsPerWorker)
	assert.Equal(t, 0.9, first.P99)
	assert.Equal(t, 1.5, first.P999)
	assert.True(t, first.Started.Equal(time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)))

	filtered, err := Read(path, "nethttp")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "c", filtered[1].RunID)
}

func TestReadMissingFile(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "none.jsonl"), "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadRejectsCorruptLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"variant\":\"x\"}\n\n{broken\n"), 0o644))

	_, err := Read(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ":3:")
}

func TestConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, Append(path, "Go", report("r", "nethttp", 1)))
		}()
	}
	wg.Wait()

	entries, err := Read(path, "")
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}
