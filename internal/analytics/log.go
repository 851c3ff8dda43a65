// Package analytics appends chat interactions to a JSONL file for offline
// analysis. Logging is best-effort: a write failure is logged and dropped,
// never surfaced to the request path.
package analytics

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"
)

// Entry is one logged user/assistant exchange.
type Entry struct {
	Timestamp         time.Time      `json:"timestamp"`
	UserMessage       string         `json:"user_message"`
	AssistantResponse string         `json:"assistant_response"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// Logger appends entries to a single file, serialized by a mutex.
type Logger struct {
	mu      sync.Mutex
	path    string
	enabled bool
}

func NewLogger(path string, enabled bool) *Logger {
	return &Logger{path: path, enabled: enabled && path != ""}
}

// Enabled reports whether the logger will write anything.
func (l *Logger) Enabled() bool { return l.enabled }

// Log appends one entry. No-op when disabled.
func (l *Logger) Log(entry Entry) {
	if !l.enabled {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	line, err := json.Marshal(entry)
	if err != nil {
		log.Printf("analytics: marshal entry: %v", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("analytics: open log: %v", err)
		return
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		log.Printf("analytics: write entry: %v", err)
	}
}
