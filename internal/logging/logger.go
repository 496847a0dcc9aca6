// Package logging is the leveled logger shared by the faviconkit commands. It
// prints to a terminal, optionally persists every event as JSONL and fans
// events out to in-process subscribers.
package logging

import (
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Logger writes events at or above its level to the terminal and to
// subscribers. A persisted log receives every event regardless of level.
// Loggers returned by With share output, level and subscribers with their
// parent.
type Logger struct {
	*shared
	bound []slog.Attr
}

type shared struct {
	level slog.LevelVar
	muted atomic.Bool

	mu      sync.RWMutex
	out     io.Writer
	console *consoleStyles
	file    *fileSink
	subs    []subscriber
	nextSub uint64

	writeMu sync.Mutex
}

type subscriber struct {
	id uint64
	fn func(Event)
}

// Event is one log record with its fields flattened to dotted keys.
type Event struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Fields  map[string]any
	// Keys lists Fields in the order they were logged.
	Keys []string
}

// New returns a logger writing to stderr. Debug events are shown only when
// debug is set.
func New(debug bool) *Logger {
	s := &shared{
		out:     os.Stderr,
		console: newConsoleStyles(os.Stderr),
	}
	if debug {
		s.level.Set(slog.LevelDebug)
	}
	return &Logger{shared: s}
}

func Field(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// With returns a logger that adds fields to every event it logs.
func (l *Logger) With(fields ...slog.Attr) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{
		shared: l.shared,
		bound:  append(slices.Clip(l.bound), fields...),
	}
}

func (l *Logger) Debug(msg string, fields ...slog.Attr) { l.log(slog.LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...slog.Attr)  { l.log(slog.LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...slog.Attr)  { l.log(slog.LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...slog.Attr) { l.log(slog.LevelError, msg, fields) }

func (l *Logger) SetDebugEnabled(enabled bool) {
	if l == nil {
		return
	}
	if enabled {
		l.level.Set(slog.LevelDebug)
		return
	}
	l.level.Set(slog.LevelInfo)
}

// SetTerminalOutputEnabled mutes or restores terminal output. Subscribers and
// the persisted log are unaffected.
func (l *Logger) SetTerminalOutputEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.muted.Store(!enabled)
}

// SetOutput redirects terminal output. Styling is kept only when w is a color
// terminal.
func (l *Logger) SetOutput(w io.Writer) {
	if l == nil || w == nil {
		return
	}
	l.mu.Lock()
	l.out = w
	l.console = newConsoleStyles(w)
	l.mu.Unlock()
}

// EnableFilePersistence writes JSONL logs under dir, or DefaultLogDirPath when
// dir is empty. Files roll over after maxBytes.
func (l *Logger) EnableFilePersistence(dir string, maxBytes int64) error {
	if l == nil {
		return nil
	}
	sink, err := openFileSink(dir, maxBytes)
	if err != nil {
		return err
	}
	l.mu.Lock()
	previous := l.file
	l.file = sink
	l.mu.Unlock()
	return previous.Close()
}

// Close flushes and detaches the persisted log. Terminal output continues.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	sink := l.file
	l.file = nil
	l.mu.Unlock()
	return sink.Close()
}

// Subscribe registers fn for every event at or above the logger's level and
// returns its cancel func.
func (l *Logger) Subscribe(fn func(Event)) func() {
	if l == nil {
		panic("logging.Logger.Subscribe: logger must not be nil")
	}
	if fn == nil {
		panic("logging.Logger.Subscribe: callback must not be nil")
	}
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs = append(l.subs, subscriber{id: id, fn: fn})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			l.subs = slices.DeleteFunc(l.subs, func(s subscriber) bool { return s.id == id })
			l.mu.Unlock()
		})
	}
}

func (l *Logger) log(level slog.Level, msg string, fields []slog.Attr) {
	if l == nil {
		return
	}
	var set fieldSet
	set.addAll("", l.bound)
	set.addAll("", fields)
	event := Event{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
		Fields:  set.values,
		Keys:    set.keys,
	}

	l.mu.RLock()
	sink, out, console := l.file, l.out, l.console
	subs := slices.Clone(l.subs)
	l.mu.RUnlock()

	if sink != nil {
		_ = sink.WriteEvent(event)
	}
	if level < l.level.Level() {
		return
	}
	if !l.muted.Load() {
		line := FormatEventLine(event)
		if console != nil {
			line = console.render(event)
		}
		l.writeMu.Lock()
		_, _ = io.WriteString(out, line)
		l.writeMu.Unlock()
	}
	for _, s := range subs {
		s.fn(event)
	}
}
