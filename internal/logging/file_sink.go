package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	defaultMaxFileBytes = 5 << 20
	defaultKeepFiles    = 8
	logFilePrefix       = "faviconkit-"
	logFileExt          = ".jsonl"
)

func DefaultLogDirPath() (string, error) {
	root, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "faviconkit", "logs"), nil
}

// fileSink appends JSONL records to numbered segments of one session and
// keeps only the newest keep files in dir.
type fileSink struct {
	mu       sync.Mutex
	dir      string
	session  string
	maxBytes int64
	keep     int
	seq      int
	f        *os.File
	written  int64
	closed   bool
}

type record struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

func openFileSink(dir string, maxBytes int64) (*fileSink, error) {
	if strings.TrimSpace(dir) == "" {
		def, err := DefaultLogDirPath()
		if err != nil {
			return nil, err
		}
		dir = def
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxFileBytes
	}
	s := &fileSink{
		dir:      dir,
		session:  fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid()),
		maxBytes: maxBytes,
		keep:     defaultKeepFiles,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.rollLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileSink) WriteEvent(event Event) error {
	if s == nil {
		return nil
	}
	line, err := encodeRecord(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return os.ErrClosed
	}
	if s.f == nil || (s.written > 0 && s.written+int64(len(line)) > s.maxBytes) {
		if err := s.rollLocked(); err != nil {
			return err
		}
	}
	n, err := s.f.Write(line)
	s.written += int64(n)
	return err
}

func (s *fileSink) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// rollLocked closes the current segment, opens the next one and prunes old
// files.
func (s *fileSink) rollLocked() error {
	if s.f != nil {
		_ = s.f.Close()
		s.f = nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	s.seq++
	name := fmt.Sprintf("%s%s-%03d%s", logFilePrefix, s.session, s.seq, logFileExt)
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	s.f = f
	s.written = info.Size()
	s.pruneLocked(name)
	return nil
}

// pruneLocked removes the oldest log files beyond keep. Names sort
// chronologically.
func (s *fileSink) pruneLocked(current string) {
	if s.keep <= 0 {
		return
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, logFilePrefix+"*"+logFileExt))
	if err != nil || len(matches) <= s.keep {
		return
	}
	slices.Sort(matches)
	for _, path := range matches[:len(matches)-s.keep] {
		if filepath.Base(path) == current {
			continue
		}
		_ = os.Remove(path)
	}
}

func encodeRecord(event Event) ([]byte, error) {
	rec := record{
		Time:    event.Time.UTC().Format(time.RFC3339Nano),
		Level:   levelName(event.Level),
		Message: event.Message,
		Fields:  event.Fields,
	}
	line, err := json.Marshal(rec)
	if err != nil {
		// channels, funcs and cyclic values are logged by their %v form
		rec.Fields = make(map[string]any, len(event.Fields))
		for k, v := range event.Fields {
			rec.Fields[k] = fmt.Sprint(v)
		}
		if line, err = json.Marshal(rec); err != nil {
			return nil, err
		}
	}
	return append(line, '\n'), nil
}
