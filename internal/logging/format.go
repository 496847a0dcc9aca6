package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

const clipLimit = 240

// Truncate collapses whitespace in value and clips it for use inside a log
// field or an error message.
func Truncate(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return "<empty>"
	}
	return ansi.Truncate(value, clipLimit, "...")
}

// FormatEventLine renders event as one logfmt-style line. Structured fields
// follow as indented JSON blocks.
func FormatEventLine(event Event) string {
	inline, blocks := renderFields(event)

	var b strings.Builder
	b.WriteString(event.Time.Format("15:04:05"))
	b.WriteString(" [")
	b.WriteString(levelName(event.Level))
	b.WriteString("] ")
	b.WriteString(event.Message)
	for _, f := range inline {
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(quoteValue(f.text))
	}
	b.WriteByte('\n')
	for _, f := range blocks {
		b.WriteString("  " + f.key + ":\n")
		for _, line := range strings.Split(f.text, "\n") {
			b.WriteString("    " + line + "\n")
		}
	}
	return b.String()
}

type renderedField struct {
	key  string
	text string
}

func renderFields(event Event) (inline, blocks []renderedField) {
	for _, key := range fieldOrder(event) {
		value := event.Fields[key]
		if text, ok := jsonBlock(value); ok {
			blocks = append(blocks, renderedField{key: key, text: text})
			continue
		}
		inline = append(inline, renderedField{key: key, text: scalarText(value)})
	}
	return inline, blocks
}

// fieldOrder returns the logged key order, or sorted keys for events built
// by hand without Keys.
func fieldOrder(event Event) []string {
	if len(event.Keys) == len(event.Fields) {
		return event.Keys
	}
	return slices.Sorted(maps.Keys(event.Fields))
}

func levelName(level slog.Level) string {
	return strings.ToUpper(level.String())
}

func scalarText(value any) string {
	if value == nil {
		return "<nil>"
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func quoteValue(text string) string {
	if text == "" {
		return `""`
	}
	if strings.ContainsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"' || r == '=' || !unicode.IsPrint(r)
	}) {
		return strconv.Quote(text)
	}
	return text
}

// jsonBlock renders maps, slices, structs and JSON text as indented JSON.
func jsonBlock(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return indentJSONText(v)
	case []byte:
		return indentJSONText(string(v))
	case json.RawMessage:
		return indentJSONText(string(v))
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		text, err := marshalIndent(value)
		return text, err == nil
	}
	return "", false
}

// indentJSONText accepts only text that is entirely one JSON object or array.
func indentJSONText(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 2 {
		return "", false
	}
	first, last := trimmed[0], trimmed[len(trimmed)-1]
	if !(first == '{' && last == '}') && !(first == '[' && last == ']') {
		return "", false
	}
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return "", false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", false
	}
	text, err := marshalIndent(decoded)
	return text, err == nil
}

func marshalIndent(value any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
