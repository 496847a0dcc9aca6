package logging

import (
	"fmt"
	"log/slog"
	"time"
)

// fieldSet collects attributes under dotted keys in first-seen order. A
// repeated key keeps its position and takes the later value.
type fieldSet struct {
	keys   []string
	values map[string]any
}

func (f *fieldSet) addAll(prefix string, attrs []slog.Attr) {
	for _, attr := range attrs {
		f.add(prefix, attr)
	}
}

func (f *fieldSet) add(prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	key := attr.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	}
	if attr.Value.Kind() == slog.KindGroup {
		// an unnamed group inlines into its parent
		if attr.Key == "" {
			key = prefix
		}
		f.addAll(key, attr.Value.Group())
		return
	}
	if attr.Key == "" {
		return
	}
	if f.values == nil {
		f.values = map[string]any{}
	}
	if _, seen := f.values[key]; !seen {
		f.keys = append(f.keys, key)
	}
	f.values[key] = plainValue(attr.Value)
}

// plainValue converts v to something both the console and JSON encoders print
// readably.
func plainValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return x.Error()
		case fmt.Stringer:
			return x.String()
		}
	}
	return v.Any()
}
