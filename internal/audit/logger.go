// Package audit appends one JSON line per engine phase to the audit log.
package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Logger struct {
	path string
	mu   sync.Mutex
}

type Event struct {
	Timestamp string            `json:"timestamp"`
	Operation string            `json:"operation"`
	Phase     string            `json:"phase"`
	Status    string            `json:"status"`
	Code      string            `json:"code,omitempty"`
	Message   string            `json:"message,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func New(path string) *Logger {
	return &Logger{path: path}
}

func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

func (l *Logger) Log(ev Event) error {
	if l == nil || l.path == "" {
		return nil
	}
	ev.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	blob, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(blob, '\n')); err != nil {
		return err
	}
	return nil
}

// Recent returns up to n of the newest events, oldest first. Lines that do
// not decode are skipped; a missing log yields no events.
func (l *Logger) Recent(n int) ([]Event, error) {
	if l == nil || l.path == "" || n <= 0 {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("AUD_READ: %w", err)
	}
	defer f.Close()
	var ring []Event
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var ev Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			continue
		}
		ring = append(ring, ev)
		if len(ring) > n {
			ring = ring[1:]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("AUD_READ: %w", err)
	}
	return ring, nil
}
