package logger

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/gzhole/genguard/internal/redact"
)

// Event is one audit record: a single request from prompt to verdict.
type Event struct {
	Timestamp      string   `json:"timestamp"`
	Fingerprint    string   `json:"fingerprint"`
	Mode           string   `json:"mode"`
	Prompt         string   `json:"prompt"`
	Backend        string   `json:"backend,omitempty"`
	Verdict        string   `json:"verdict,omitempty"`
	Score          int      `json:"score"`
	CacheHit       bool     `json:"cache_hit"`
	TriggeredRules []string `json:"triggered_rules,omitempty"`
	DurationMillis int64    `json:"duration_ms"`
	Error          string   `json:"error,omitempty"`
}

// AuditLogger appends JSONL events to a single file. Safe for
// concurrent use.
type AuditLogger struct {
	file *os.File
	mu   sync.Mutex
}

func New(path string) (*AuditLogger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	return &AuditLogger{file: file}, nil
}

// Log writes one event. Prompts and errors are redacted first so
// credentials pasted into a request never land in the log.
func (l *AuditLogger) Log(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	event.Prompt = redact.Redact(event.Prompt)
	if event.Error != "" {
		event.Error = redact.Redact(event.Error)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = l.file.Write(data)
	return err
}

func (l *AuditLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
