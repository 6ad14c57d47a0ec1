package sandbox_test

import (
	"strings"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/inkpad/playground/internal/observability"
	"github.com/inkpad/playground/internal/sandbox"
)

const waitTimeout = 5 * time.Second

// recorder collects everything a session delivers.
type recorder struct {
	mu       sync.Mutex
	messages []sandbox.ConsoleMessage
	statuses []sandbox.Status
	finished chan sandbox.Status
}

func newRecorder(s *sandbox.Session) *recorder {
	r := &recorder{finished: make(chan sandbox.Status, 16)}
	s.OnConsoleMessage(func(m sandbox.ConsoleMessage) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.messages = append(r.messages, m)
	})
	s.OnStatus(func(st sandbox.Status) {
		r.mu.Lock()
		r.statuses = append(r.statuses, st)
		r.mu.Unlock()
		if st.State != sandbox.RunStateRunning {
			r.finished <- st
		}
	})
	return r
}

func (r *recorder) waitFinished(t *testing.T) sandbox.Status {
	t.Helper()
	select {
	case st := <-r.finished:
		return st
	case <-time.After(waitTimeout):
		t.Fatal("run did not finish")
		return sandbox.Status{}
	}
}

func (r *recorder) Messages() []sandbox.ConsoleMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sandbox.ConsoleMessage(nil), r.messages...)
}

func newGoSession(t *testing.T, code string, opts sandbox.Options) (*sandbox.Runtime, *sandbox.Session) {
	t.Helper()
	rt := sandbox.NewRuntime(observability.NewNoOpLogger())
	s, err := rt.CreateSession(map[string]string{sandbox.GoEntryFile: code}, "vanilla", opts)
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	return rt, s
}

func TestSession_SnippetConsoleLog(t *testing.T) {
	_, s := newGoSession(t, "console.Log(1)", sandbox.DefaultOptions())
	rec := newRecorder(s)
	s.Start()

	st := rec.waitFinished(t)

	require.Equal(t, sandbox.RunStateSucceeded, st.State)
	require.Equal(t, []sandbox.ConsoleMessage{{Method: "log", Args: []any{1}}}, rec.Messages())
}

func TestSession_ProgramStdoutIsPreview(t *testing.T) {
	code := `package main

import (
	"fmt"

	"playground/console"
)

func main() {
	fmt.Println("hello from main")
	console.Warn("careful", 2)
}
`
	_, s := newGoSession(t, code, sandbox.DefaultOptions())
	rec := newRecorder(s)
	s.Start()

	st := rec.waitFinished(t)

	require.Equal(t, sandbox.RunStateSucceeded, st.State)
	require.Contains(t, s.Render(80, 20), "hello from main")
	require.Equal(t,
		[]sandbox.ConsoleMessage{{Method: "warn", Args: []any{"careful", 2}}},
		rec.Messages())
}

func TestSession_ExecutionErrorReachesPreviewAndConsole(t *testing.T) {
	_, s := newGoSession(t, "package main\n\nfunc main() { undefinedThing() }\n", sandbox.DefaultOptions())
	rec := newRecorder(s)
	s.Start()

	st := rec.waitFinished(t)

	require.Equal(t, sandbox.RunStateFailed, st.State)
	require.Error(t, st.Err)
	require.Contains(t, s.Render(80, 20), "undefinedThing")

	msgs := rec.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "error", msgs[0].Method)
}

func TestSession_ForbiddenImport(t *testing.T) {
	code := "package main\n\nimport \"os\"\n\nfunc main() { os.Exit(1) }\n"
	_, s := newGoSession(t, code, sandbox.DefaultOptions())
	rec := newRecorder(s)
	s.Start()

	st := rec.waitFinished(t)

	require.ErrorIs(t, st.Err, sandbox.ErrForbiddenImport)
}

func TestSession_NoAutoRunStaysIdle(t *testing.T) {
	opts := sandbox.DefaultOptions()
	opts.AutoRun = false
	_, s := newGoSession(t, "console.Log(1)", opts)
	s.Start()

	require.Equal(t, sandbox.RunStateIdle, s.Status().State)
	require.Empty(t, s.Render(80, 20))
}

func TestSession_UnsubscribeStopsDelivery(t *testing.T) {
	opts := sandbox.DefaultOptions()
	opts.AutoRun = false
	_, s := newGoSession(t, "console.Log(1)", opts)

	var mu sync.Mutex
	var got int
	unsubscribe := s.OnConsoleMessage(func(sandbox.ConsoleMessage) {
		mu.Lock()
		got++
		mu.Unlock()
	})
	rec := newRecorder(s)

	s.Run()
	rec.waitFinished(t)
	unsubscribe()
	unsubscribe()
	s.Run()
	rec.waitFinished(t)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, got)
	require.Len(t, rec.Messages(), 2)
}

func TestSession_RateLimitSummarizesSuppressed(t *testing.T) {
	opts := sandbox.DefaultOptions()
	opts.MessagesPerSecond = 0.001
	opts.MessageBurst = 5
	_, s := newGoSession(t, "for i := 0; i < 20; i++ { console.Log(i) }", opts)
	rec := newRecorder(s)
	s.Start()

	rec.waitFinished(t)

	msgs := rec.Messages()
	require.Len(t, msgs, 6)
	for i := range 5 {
		require.Equal(t, []any{i}, msgs[i].Args)
	}
	require.Equal(t, "warn", msgs[5].Method)
	require.Equal(t, []any{"15 console messages suppressed"}, msgs[5].Args)
}

func TestSession_CloseReleasesEverything(t *testing.T) {
	defer goleak.VerifyNone(t)

	rt := sandbox.NewRuntime(nil)
	s, err := rt.CreateSession(
		map[string]string{sandbox.GoEntryFile: "console.Log(1)"}, "go", sandbox.DefaultOptions())
	require.NoError(t, err)
	rec := newRecorder(s)
	s.Start()
	rec.waitFinished(t)

	require.Equal(t, 1, rt.LiveSessions())
	s.Close()
	s.Close()
	require.Equal(t, 0, rt.LiveSessions())

	_, err = rt.Session(s.ID())
	require.ErrorIs(t, err, sandbox.ErrSessionClosed)

	_, err = rt.Session("unknown")
	require.Error(t, err)
	require.NotErrorIs(t, err, sandbox.ErrSessionClosed)

	// Runs requested after Close are ignored.
	s.Run()
	require.Equal(t, sandbox.RunStateSucceeded, s.Status().State)
}

func TestSession_EditsAreDebounced(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rt := sandbox.NewRuntime(nil)
		s, err := rt.CreateSession(
			map[string]string{sandbox.MarkdownEntryFile: "# one"}, "markdown", sandbox.DefaultOptions())
		require.NoError(t, err)
		defer s.Close()

		var mu sync.Mutex
		var runs []int
		s.OnStatus(func(st sandbox.Status) {
			if st.State == sandbox.RunStateSucceeded {
				mu.Lock()
				runs = append(runs, st.Run)
				mu.Unlock()
			}
		})
		s.Start()
		synctest.Wait()

		for _, text := range []string{"# two", "# three", "# four"} {
			s.UpdateFile(sandbox.MarkdownEntryFile, text)
			time.Sleep(100 * time.Millisecond)
		}
		time.Sleep(300 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		require.Equal(t, []int{1, 2}, runs)
		require.Equal(t, "# four", s.File(sandbox.MarkdownEntryFile))
	})
}

func TestSession_MarkdownRender(t *testing.T) {
	rt := sandbox.NewRuntime(nil)
	defer rt.Close()
	s, err := rt.CreateSession(
		map[string]string{sandbox.MarkdownEntryFile: "# Closures\n\nA *closure* captures."},
		"markdown", sandbox.DefaultOptions())
	require.NoError(t, err)
	rec := newRecorder(s)
	s.Start()
	rec.waitFinished(t)

	out := s.Render(60, 10)

	require.Contains(t, out, "Closures")
	require.Contains(t, out, "captures")
	require.Empty(t, rec.Messages())
}

func TestRuntime_CreateSessionErrors(t *testing.T) {
	rt := sandbox.NewRuntime(nil)

	_, err := rt.CreateSession(map[string]string{"/index.js": "x"}, "react", sandbox.DefaultOptions())
	require.ErrorIs(t, err, sandbox.ErrUnknownTemplate)

	_, err = rt.CreateSession(map[string]string{"/index.js": "x"}, "vanilla", sandbox.DefaultOptions())
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), sandbox.GoEntryFile))
}

func TestEntryFile(t *testing.T) {
	path, err := sandbox.EntryFile("markdown")
	require.NoError(t, err)
	require.Equal(t, sandbox.MarkdownEntryFile, path)

	_, err = sandbox.EntryFile("svelte")
	require.ErrorIs(t, err, sandbox.ErrUnknownTemplate)
}
