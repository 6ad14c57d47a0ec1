package sandbox

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
	lru "github.com/hashicorp/golang-lru"
)

// MarkdownEntryFile is the file rendered by the markdown template.
const MarkdownEntryFile = "/README.md"

// minMarkdownWidth keeps glamour from wrapping every word on narrow panes.
const minMarkdownWidth = 20

// markdownCacheSize bounds the renderings kept across sessions.
const markdownCacheSize = 64

type markdownKey struct {
	source string
	width  int
}

// markdownCache holds rendered previews keyed by source and wrap width.
var markdownCache = sync.OnceValue(func() *lru.Cache {
	c, err := lru.New(markdownCacheSize)
	if err != nil {
		panic(err)
	}
	return c
})

func runMarkdown(_ context.Context, files map[string]string, _ func(ConsoleMessage)) runResult {
	return runResult{output: files[MarkdownEntryFile]}
}

func renderMarkdown(output string, width int) (string, error) {
	key := markdownKey{source: output, width: max(width, minMarkdownWidth)}
	if v, ok := markdownCache().Get(key); ok {
		return v.(string), nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(key.width),
	)
	if err != nil {
		return "", fmt.Errorf("sandbox: markdown renderer: %w", err)
	}
	rendered, err := r.Render(output)
	if err != nil {
		return "", err
	}
	markdownCache().Add(key, rendered)
	return rendered, nil
}
