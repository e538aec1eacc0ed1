// Package notify pushes the outcome of coloring attempts to a socket.io
// endpoint, typically a graph editor that repaints its nodes.
package notify

import (
	"context"
	"time"

	"github.com/vk/satcolor/internal/coloring"
	"github.com/vk/satcolor/internal/graph"
)

// DefaultEvent is the socket.io event name used when none is configured.
const DefaultEvent = "coloring"

// Event is the payload of one notification.
type Event struct {
	AttemptID   string            `json:"attempt_id"`
	Source      string            `json:"source,omitempty"`
	Engine      string            `json:"engine"`
	Budget      int               `json:"budget"`
	Satisfiable bool              `json:"satisfiable"`
	Error       string            `json:"error,omitempty"`
	Colors      map[string]string `json:"colors,omitempty"`
	Variables   int               `json:"variables"`
	Clauses     int               `json:"clauses"`
	ElapsedMS   int64             `json:"elapsed_ms"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// NewEvent describes an attempt. name maps node identities to the names
// the receiver knows them by. A failed attempt carries only its error.
func NewEvent(source string, out *coloring.Outcome, err error, name func(graph.NodeID) string) Event {
	ev := Event{Source: source}
	if err != nil {
		ev.Error = err.Error()
	}
	if out == nil {
		return ev
	}

	ev.AttemptID = out.AttemptID.String()
	ev.Engine = out.Engine
	ev.Budget = out.Budget
	ev.Variables = out.Variables
	ev.Clauses = out.Clauses
	ev.ElapsedMS = out.Elapsed.Round(time.Millisecond).Milliseconds()
	if err == nil && out.Satisfiable() {
		ev.Satisfiable = true
		ev.Colors = make(map[string]string, len(out.Colors))
		for id, c := range out.Colors {
			ev.Colors[name(id)] = c.String()
		}
	}
	return ev
}
