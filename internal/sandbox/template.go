package sandbox

import (
	"context"
	"errors"
	"fmt"
)

// Template ids understood by the runtime.
const (
	TemplateVanilla  = "vanilla"
	TemplateGo       = "go"
	TemplateMarkdown = "markdown"
)

var (
	// ErrUnknownTemplate is returned for an unsupported template id.
	ErrUnknownTemplate = errors.New("sandbox: unknown template")

	// ErrSessionClosed is returned when looking up a closed session.
	ErrSessionClosed = errors.New("sandbox: session closed")
)

// runResult is the outcome of one run.
type runResult struct {
	// output is the raw preview content (program stdout, markdown source).
	output string
	err    error
}

// template describes how a template runs and renders its preview.
type template struct {
	// entry is the file path the template executes.
	entry string

	run func(ctx context.Context, files map[string]string, console func(ConsoleMessage)) runResult

	// render formats output for a pane of the given width. Nil means the
	// output is shown verbatim.
	render func(output string, width int) (string, error)
}

func lookupTemplate(id string) (template, error) {
	switch id {
	case TemplateVanilla, TemplateGo:
		return template{entry: GoEntryFile, run: runGo}, nil
	case TemplateMarkdown:
		return template{
			entry:  MarkdownEntryFile,
			run:    runMarkdown,
			render: renderMarkdown,
		}, nil
	default:
		return template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
}

// EntryFile returns the file path a template executes.
func EntryFile(templateID string) (string, error) {
	t, err := lookupTemplate(templateID)
	if err != nil {
		return "", err
	}
	return t.entry, nil
}
