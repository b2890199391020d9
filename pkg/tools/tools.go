// Package tools implements the interactive study tools embedded in tool
// pages: a flashcard generator and a reading coach.
//
// Tools are a closed set. Content refers to them by component id
// ("AnkiMock", "ReadingMock") and the CLI by short name ("flashcards",
// "reading"); both resolve through [Lookup] to an [ID], so an unknown name
// fails with TOOL_NOT_FOUND instead of rendering nothing.
//
// Both tools are demos. They simulate model latency with timers, answer from
// fixtures and honor context cancellation.
package tools

import (
	"context"
	"strings"
	"time"

	"github.com/itsuki/garden/pkg/errors"
)

// ID identifies a tool.
type ID int

const (
	Flashcards ID = iota + 1
	Reading
)

// Info describes a registered tool.
type Info struct {
	ID          ID     `json:"-"`
	Name        string `json:"name"`
	ComponentID string `json:"component_id"`
	Title       string `json:"title"`
	Icon        string `json:"icon"`
}

var registry = []Info{
	{ID: Flashcards, Name: "flashcards", ComponentID: "AnkiMock", Title: "Anki Deep Parser", Icon: "Zap"},
	{ID: Reading, Name: "reading", ComponentID: "ReadingMock", Title: "Speech Coach", Icon: "TrendingUp"},
}

// All returns the registry in ID order.
func All() []Info {
	out := make([]Info, len(registry))
	copy(out, registry)
	return out
}

// Info returns the registry entry for id.
func (id ID) Info() (Info, bool) {
	for _, info := range registry {
		if info.ID == id {
			return info, true
		}
	}
	return Info{}, false
}

func (id ID) String() string {
	if info, ok := id.Info(); ok {
		return info.Name
	}
	return "unknown"
}

// Lookup resolves a short name (case-insensitive) or a component id.
func Lookup(name string) (ID, error) {
	for _, info := range registry {
		if name == info.ComponentID || strings.EqualFold(name, info.Name) {
			return info.ID, nil
		}
	}
	return 0, errors.New(errors.ErrCodeToolNotFound, "tool %q not found", name)
}

// DefaultIcon is shown for unknown icon names.
const DefaultIcon = "Wrench"

var icons = map[string]bool{
	"Wrench": true, "Zap": true, "TrendingUp": true, "Mic": true,
	"Library": true, "Languages": true, "BookOpen": true, "Terminal": true,
	"Keyboard": true, "Music": true, "FileText": true, "Globe": true,
	"Camera": true, "Film": true, "Gamepad2": true, "PenTool": true,
}

// Icon returns name when it is a known icon and DefaultIcon otherwise.
func Icon(name string) string {
	if icons[name] {
		return name
	}
	return DefaultIcon
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "simulated request")
		}
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
