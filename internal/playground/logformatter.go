package playground

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/wandb/simplejsonext"

	"github.com/inkpad/playground/internal/sandbox"
)

// LogFormatter limits.
const (
	// UnserializablePlaceholder replaces arguments that cannot be
	// serialized, e.g. self-referencing values.
	UnserializablePlaceholder = "[unserializable]"

	// maxFormatDepth is the deepest nesting rendered for structured values.
	maxFormatDepth = 6

	// maxFormatItems is the number of elements rendered per container.
	maxFormatItems = 100

	// truncationMarker stands in for content beyond the limits above.
	truncationMarker = "..."
)

var errUnserializable = errors.New("unserializable value")

// LogLevel is the severity of a console message.
type LogLevel int

const (
	LevelLog LogLevel = iota
	LevelWarn
	LevelError
	LevelInfo
	LevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "log"
	}
}

// ParseLogLevel maps a console method name to a level.
//
// The method vocabulary is not fixed, so unrecognized names map to LevelLog.
func ParseLogLevel(method string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "warn", "warning":
		return LevelWarn
	case "error", "assert":
		return LevelError
	case "info":
		return LevelInfo
	case "debug", "trace":
		return LevelDebug
	default:
		return LevelLog
	}
}

// LogEntry is one captured console call ready for display.
type LogEntry struct {
	// Sequence increases by one per entry within a session, starting at 0.
	Sequence int

	Level LogLevel

	// RenderedArgs are the call's arguments in their original order.
	RenderedArgs []string
}

// Text joins the rendered arguments with single spaces.
func (e LogEntry) Text() string {
	return strings.Join(e.RenderedArgs, " ")
}

// FormatMessage converts a raw console message into a LogEntry.
func FormatMessage(seq int, msg sandbox.ConsoleMessage) LogEntry {
	args := make([]string, len(msg.Args))
	for i, a := range msg.Args {
		args[i] = FormatArg(a)
	}
	return LogEntry{
		Sequence:     seq,
		Level:        ParseLogLevel(msg.Method),
		RenderedArgs: args,
	}
}

// FormatArg renders one console argument.
//
// Scalars use their plain string form. Structured values (maps, slices,
// arrays, structs) are serialized as JSON, bounded by depth and size.
// Values that cannot be serialized yield UnserializablePlaceholder.
func FormatArg(v any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = UnserializablePlaceholder
		}
	}()

	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return t
	case error:
		return t.Error()
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	}

	rv := reflect.ValueOf(v)
	if !isStructured(rv) {
		return fmt.Sprint(v)
	}

	var b strings.Builder
	if err := writeJSON(&b, rv, 0, make(map[visit]bool)); err != nil {
		return UnserializablePlaceholder
	}
	return b.String()
}

// isStructured reports whether v serializes as a JSON object or array.
func isStructured(v reflect.Value) bool {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	default:
		return false
	}
}

// visit identifies a reference-typed value on the current path.
type visit struct {
	ptr uintptr
	typ reflect.Type
}

// writeJSON serializes v into b. Scalars are encoded by simplejsonext;
// containers are assembled here so that struct fields keep declaration
// order and map keys are sorted.
func writeJSON(b *strings.Builder, v reflect.Value, depth int, onPath map[visit]bool) error {
	if !v.IsValid() {
		return writeScalar(b, nil)
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return writeScalar(b, nil)
		}
		if v.Kind() == reflect.Pointer {
			key := visit{v.Pointer(), v.Type()}
			if onPath[key] {
				return errUnserializable
			}
			onPath[key] = true
			defer delete(onPath, key)
		}
		return writeJSON(b, v.Elem(), depth, onPath)

	case reflect.Map:
		if v.IsNil() {
			return writeScalar(b, nil)
		}
		key := visit{v.Pointer(), v.Type()}
		if onPath[key] {
			return errUnserializable
		}
		onPath[key] = true
		defer delete(onPath, key)
		return writeMap(b, v, depth, onPath)

	case reflect.Slice:
		if v.IsNil() {
			return writeScalar(b, nil)
		}
		if v.Len() > 0 {
			key := visit{v.Pointer(), v.Type()}
			if onPath[key] {
				return errUnserializable
			}
			onPath[key] = true
			defer delete(onPath, key)
		}
		return writeList(b, v, depth, onPath)

	case reflect.Array:
		return writeList(b, v, depth, onPath)

	case reflect.Struct:
		if v.CanInterface() {
			if t, ok := v.Interface().(time.Time); ok {
				return writeScalar(b, t.Format(time.RFC3339Nano))
			}
		}
		return writeStruct(b, v, depth, onPath)

	case reflect.Bool:
		return writeScalar(b, v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return writeScalar(b, v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return writeScalar(b, v.Uint())
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return writeScalar(b, fmt.Sprint(f))
		}
		return writeScalar(b, f)
	case reflect.Complex64, reflect.Complex128:
		return writeScalar(b, fmt.Sprint(v.Complex()))
	case reflect.String:
		return writeScalar(b, v.String())
	default:
		// Channels, funcs and unsafe pointers have no JSON form.
		return errUnserializable
	}
}

func writeScalar(b *strings.Builder, v any) error {
	data, err := simplejsonext.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", errUnserializable, err)
	}
	b.Write(data)
	return nil
}

func writeList(b *strings.Builder, v reflect.Value, depth int, onPath map[visit]bool) error {
	if depth >= maxFormatDepth {
		return writeScalar(b, truncationMarker)
	}

	b.WriteByte('[')
	for i := range v.Len() {
		if i > 0 {
			b.WriteByte(',')
		}
		if i == maxFormatItems {
			if err := writeScalar(b, truncationMarker); err != nil {
				return err
			}
			break
		}
		if err := writeJSON(b, v.Index(i), depth+1, onPath); err != nil {
			return err
		}
	}
	b.WriteByte(']')
	return nil
}

func writeMap(b *strings.Builder, v reflect.Value, depth int, onPath map[visit]bool) error {
	if depth >= maxFormatDepth {
		return writeScalar(b, truncationMarker)
	}

	type kv struct {
		key string
		val reflect.Value
	}
	entries := make([]kv, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		entries = append(entries, kv{fmt.Sprint(iter.Key().Interface()), iter.Value()})
	}
	slices.SortFunc(entries, func(a, b kv) int { return strings.Compare(a.key, b.key) })

	b.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(',')
		}
		if i == maxFormatItems {
			if err := writeField(b, truncationMarker, reflect.ValueOf(truncationMarker), depth, onPath); err != nil {
				return err
			}
			break
		}
		if err := writeField(b, e.key, e.val, depth, onPath); err != nil {
			return err
		}
	}
	b.WriteByte('}')
	return nil
}

func writeStruct(b *strings.Builder, v reflect.Value, depth int, onPath map[visit]bool) error {
	if depth >= maxFormatDepth {
		return writeScalar(b, truncationMarker)
	}

	t := v.Type()
	b.WriteByte('{')
	written := 0
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if written > 0 {
			b.WriteByte(',')
		}
		if written == maxFormatItems {
			if err := writeField(b, truncationMarker, reflect.ValueOf(truncationMarker), depth, onPath); err != nil {
				return err
			}
			break
		}
		if err := writeField(b, f.Name, v.Field(i), depth, onPath); err != nil {
			return err
		}
		written++
	}
	b.WriteByte('}')
	return nil
}

func writeField(b *strings.Builder, key string, val reflect.Value, depth int, onPath map[visit]bool) error {
	if err := writeScalar(b, key); err != nil {
		return err
	}
	b.WriteByte(':')
	return writeJSON(b, val, depth+1, onPath)
}
