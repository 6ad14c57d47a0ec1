package playground

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding defines a key binding for a particular target type.
//
// If Handler is nil, the binding is documentation only: it is listed in
// the status bar but handled elsewhere (e.g. by the editor widget).
type KeyBinding[T any] struct {
	Keys        []string
	Description string

	// Hint is the short label shown in the status bar. Bindings without
	// a hint are not shown there.
	Hint string

	Handler func(*T, tea.KeyMsg) tea.Cmd
}

// BindingCategory groups related key bindings.
type BindingCategory[T any] struct {
	Name     string
	Bindings []KeyBinding[T]
}

// ShellKeyBindings returns the bindings active regardless of focus.
func ShellKeyBindings() []BindingCategory[Shell] {
	return []BindingCategory[Shell]{
		{
			Name: "General",
			Bindings: []KeyBinding[Shell]{
				{
					Keys:        []string{"ctrl+c"},
					Description: "Quit",
					Hint:        "quit",
					Handler:     (*Shell).handleQuit,
				},
				{
					Keys:        []string{"ctrl+s"},
					Description: "Run the code now",
					Hint:        "run",
					Handler:     (*Shell).handleRun,
				},
				{
					Keys:        []string{"ctrl+r"},
					Description: "Reset the code to the original and start a new session",
					Hint:        "reset",
					Handler:     (*Shell).handleReset,
				},
			},
		},
		{
			Name: "Views",
			Bindings: []KeyBinding[Shell]{
				{
					Keys:        []string{"f2", "alt+1"},
					Description: "Show the result",
					Hint:        "result",
					Handler:     (*Shell).handleShowResult,
				},
				{
					Keys:        []string{"f3", "alt+2"},
					Description: "Show the console",
					Hint:        "console",
					Handler:     (*Shell).handleShowConsole,
				},
				{
					Keys:        []string{"ctrl+l"},
					Description: "Clear the console",
					Hint:        "clear",
					Handler:     (*Shell).handleClearConsole,
				},
				{
					Keys:        []string{"esc"},
					Description: "Move focus between the editor and the console",
					Handler:     (*Shell).handleToggleFocus,
				},
			},
		},
		mouseCategory[Shell](),
	}
}

// ConsoleKeyBindings returns the bindings active while the console pane
// has focus.
func ConsoleKeyBindings() []BindingCategory[Shell] {
	return []BindingCategory[Shell]{
		{
			Name: "Console (when focused)",
			Bindings: []KeyBinding[Shell]{
				{
					Keys:        []string{"up", "k"},
					Description: "Previous entry",
					Handler:     (*Shell).handleConsoleUp,
				},
				{
					Keys:        []string{"down", "j"},
					Description: "Next entry",
					Handler:     (*Shell).handleConsoleDown,
				},
				{
					Keys:        []string{"pgup"},
					Description: "Previous page",
					Handler:     (*Shell).handleConsolePageUp,
				},
				{
					Keys:        []string{"pgdown"},
					Description: "Next page",
					Handler:     (*Shell).handleConsolePageDown,
				},
				{
					Keys:        []string{"end", "G"},
					Description: "Follow new output",
					Handler:     (*Shell).handleConsoleEnd,
				},
			},
		},
	}
}

// buildKeyMap builds a fast lookup map from key string to handler.
func buildKeyMap[T any](categories []BindingCategory[T]) map[string]func(*T, tea.KeyMsg) tea.Cmd {
	keyMap := make(map[string]func(*T, tea.KeyMsg) tea.Cmd)
	for _, category := range categories {
		for _, binding := range category.Bindings {
			if binding.Handler == nil {
				continue
			}
			for _, key := range binding.Keys {
				keyMap[normalizeKey(key)] = binding.Handler
			}
		}
	}
	return keyMap
}

// normalizeKey normalizes Bubble Tea's KeyMsg.String() into a stable key.
//
// Bubble Tea has historically reported space as " " in some situations.
func normalizeKey(key string) string {
	if key == " " {
		return "space"
	}
	return key
}

func mouseCategory[T any]() BindingCategory[T] {
	return BindingCategory[T]{
		Name: "Mouse",
		Bindings: []KeyBinding[T]{
			{
				Keys:        []string{"drag divider"},
				Description: "Resize the editor and the right pane",
			},
			{
				Keys:        []string{"click"},
				Description: "Switch tabs, reset, clear the console or focus a pane",
			},
			{
				Keys:        []string{"wheel"},
				Description: "Scroll the focused pane",
			},
		},
	}
}
