package playground_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpad/playground/internal/playground"
	"github.com/inkpad/playground/internal/sandbox"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		method string
		want   playground.LogLevel
	}{
		{"log", playground.LevelLog},
		{"warn", playground.LevelWarn},
		{"Warning", playground.LevelWarn},
		{"error", playground.LevelError},
		{"assert", playground.LevelError},
		{"info", playground.LevelInfo},
		{"debug", playground.LevelDebug},
		{"trace", playground.LevelDebug},
		{" INFO ", playground.LevelInfo},
		{"table", playground.LevelLog},
		{"", playground.LevelLog},
	}
	for _, tc := range tests {
		t.Run(tc.method, func(t *testing.T) {
			assert.Equal(t, tc.want, playground.ParseLogLevel(tc.method))
		})
	}
}

func TestFormatMessage_ScalarArgs(t *testing.T) {
	entry := playground.FormatMessage(3, sandbox.ConsoleMessage{
		Method: "error",
		Args:   []any{"x", 1, true, 2.5, nil, errors.New("boom")},
	})

	want := playground.LogEntry{
		Sequence:     3,
		Level:        playground.LevelError,
		RenderedArgs: []string{"x", "1", "true", "2.5", "<nil>", "boom"},
	}
	if diff := cmp.Diff(want, entry); diff != "" {
		t.Errorf("FormatMessage mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "x 1 true 2.5 <nil> boom", entry.Text())
}

func TestFormatMessage_UnknownMethodIsLog(t *testing.T) {
	entry := playground.FormatMessage(0, sandbox.ConsoleMessage{Method: "dir", Args: []any{"a"}})
	require.Equal(t, playground.LevelLog, entry.Level)
}

func TestFormatMessage_NoArgs(t *testing.T) {
	entry := playground.FormatMessage(0, sandbox.ConsoleMessage{Method: "log"})
	require.Empty(t, entry.RenderedArgs)
	require.Equal(t, "", entry.Text())
}

func TestFormatArg_StructuredValues(t *testing.T) {
	type point struct {
		X, Y   int
		hidden int
	}

	tests := []struct {
		name string
		arg  any
		want string
	}{
		{"map sorted keys", map[string]any{"b": 1, "a": []any{1, "x"}}, `{"a":[1,"x"],"b":1}`},
		{"slice", []string{"a", "b"}, `["a","b"]`},
		{"array", [2]int{4, 5}, `[4,5]`},
		{"struct exported fields", point{X: 1, Y: 2, hidden: 3}, `{"X":1,"Y":2}`},
		{"pointer to struct", &point{X: 1}, `{"X":1,"Y":0}`},
		{"nested nil", map[string]any{"k": nil}, `{"k":null}`},
		{"empty slice", []int{}, `[]`},
		{"int keys", map[int]bool{2: true, 1: false}, `{"1":false,"2":true}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, playground.FormatArg(tc.arg))
		})
	}
}

func TestFormatArg_SelfReferencingMapYieldsPlaceholder(t *testing.T) {
	m := map[string]any{"name": "loop"}
	m["self"] = m

	require.NotPanics(t, func() {
		require.Equal(t, playground.UnserializablePlaceholder, playground.FormatArg(m))
	})
}

func TestFormatArg_SelfReferencingPointerYieldsPlaceholder(t *testing.T) {
	type node struct {
		Value int
		Next  *node
	}
	n := &node{Value: 1}
	n.Next = n

	require.Equal(t, playground.UnserializablePlaceholder, playground.FormatArg(n))
}

func TestFormatArg_SharedValueIsNotACycle(t *testing.T) {
	shared := []int{1}
	got := playground.FormatArg(map[string]any{"a": shared, "b": shared})
	require.Equal(t, `{"a":[1],"b":[1]}`, got)
}

func TestFormatArg_UnserializableValues(t *testing.T) {
	require.Equal(t, playground.UnserializablePlaceholder,
		playground.FormatArg([]any{make(chan int)}))
	require.Equal(t, playground.UnserializablePlaceholder,
		playground.FormatArg(map[string]any{"f": func() {}}))
}

func TestFormatArg_BoundsDepth(t *testing.T) {
	var v any = "leaf"
	for range 10 {
		v = []any{v}
	}

	got := playground.FormatArg(v)
	require.Contains(t, got, `"..."`)
	require.NotContains(t, got, "leaf")
}

func TestFormatArg_BoundsItems(t *testing.T) {
	items := make([]int, 150)
	got := playground.FormatArg(items)

	require.True(t, strings.HasSuffix(got, `,"..."]`), got)
	require.Equal(t, 101, strings.Count(got, ",")+1)
}

func TestFormatArg_TimeAndStringer(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.Equal(t, "2024-01-02T03:04:05Z", playground.FormatArg(ts))
	require.Equal(t, "1.5s", playground.FormatArg(1500*time.Millisecond))
	require.Equal(t, `{"At":"2024-01-02T03:04:05Z"}`,
		playground.FormatArg(struct{ At time.Time }{ts}))
}
