// Package history keeps an append-only JSON lines log of benchmark reports.
package history

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/tidwall/gjson"

	"github.com/torosent/reqbench/internal/runner"
)

// Entry is one stored report, flattened for listing.
type Entry struct {
	RunID             string
	Language          string
	Variant           string
	Kind              string
	Target            string
	Workers           int
	RequestsPerWorker int
	Started           time.Time
	Mean              float64
	P99               float64
	P999              float64
	Max               float64
}

type record struct {
	Language string `json:"language"`
	runner.Report
}

// Append writes rep as one JSON line to path. Concurrent writers from other
// processes are serialized through a lock file next to path.
func Append(path, language string, rep runner.Report) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock history file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	line, err := json.Marshal(record{Language: language, Report: rep})
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Read returns the stored entries in file order. A non-empty variant keeps
// only entries of that variant. A missing file yields no entries.
func Read(path, variant string) ([]Entry, error) {
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock history file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) {
			return nil, fmt.Errorf("%s:%d: invalid JSON", path, lineNo)
		}
		doc := gjson.ParseBytes(line)
		if variant != "" && doc.Get("variant").String() != variant {
			continue
		}
		entries = append(entries, entryFrom(doc))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func entryFrom(doc gjson.Result) Entry {
	return Entry{
		RunID:             doc.Get("run_id").String(),
		Language:          doc.Get("language").String(),
		Variant:           doc.Get("variant").String(),
		Kind:              doc.Get("kind").String(),
		Target:            doc.Get("target").String(),
		Workers:           int(doc.Get("workers").Int()),
		RequestsPerWorker: int(doc.Get("requests_per_worker").Int()),
		Started:           doc.Get("started").Time(),
		Mean:              doc.Get("summary.mean_ms").Float(),
		P99:               doc.Get("summary.p99_ms").Float(),
		P999:              doc.Get("summary.p999_ms").Float(),
		Max:               doc.Get("summary.max_ms").Float(),
	}
}
