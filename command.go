package glossify

import (
	"context"
	"fmt"
)

// Highlightable is a document that can visually mark its replacement
// units. Implemented by processor.Document.
type Highlightable interface {
	Highlight() (int, error)
	ClearHighlight() (int, error)
}

// CommandResult is the structured response of a debug command.
type CommandResult struct {
	Command string         `json:"command"`
	Data    map[string]any `json:"data,omitempty"`
}

// Controller is the in-process debug/control surface. It dispatches named
// commands against the engine, the tracker, and the bound document. It is
// purely operational; nothing in the core depends on it.
type Controller struct {
	engine  *Engine
	tracker *Tracker
	doc     Highlightable
}

// NewController wires the debug surface. tracker and doc may be nil; the
// commands that need them report an error instead.
func NewController(engine *Engine, tracker *Tracker, doc Highlightable) *Controller {
	return &Controller{engine: engine, tracker: tracker, doc: doc}
}

// Execute dispatches one named command. Recognized commands: stats,
// highlight, clearHighlight, relax, setRatio, processNow.
func (c *Controller) Execute(ctx context.Context, name string, args map[string]any) (*CommandResult, error) {
	switch name {
	case "stats":
		return c.stats()
	case "highlight":
		return c.highlight(true)
	case "clearHighlight":
		return c.highlight(false)
	case "relax":
		threshold, err := floatArg(name, args, "threshold")
		if err != nil {
			return nil, err
		}
		c.engine.Relax(threshold)
		return &CommandResult{Command: name, Data: map[string]any{"threshold": threshold}}, nil
	case "setRatio":
		pct, err := floatArg(name, args, "pct")
		if err != nil {
			return nil, err
		}
		c.engine.SetRatio(pct / 100)
		return &CommandResult{Command: name, Data: map[string]any{"ratio": c.engine.Config().Ratio}}, nil
	case "processNow":
		if c.tracker == nil {
			return nil, &CommandError{Name: name, Message: "no tracker bound"}
		}
		if err := c.tracker.ProcessNow(ctx); err != nil {
			return nil, err
		}
		return &CommandResult{Command: name, Data: map[string]any{"passes": c.tracker.Stats().Passes}}, nil
	default:
		return nil, &CommandError{Name: name}
	}
}

func (c *Controller) stats() (*CommandResult, error) {
	data := map[string]any{
		"engine": c.engine.Stats(),
	}
	if c.tracker != nil {
		data["tracker"] = c.tracker.Stats()
	}
	return &CommandResult{Command: "stats", Data: data}, nil
}

func (c *Controller) highlight(on bool) (*CommandResult, error) {
	name := "highlight"
	if !on {
		name = "clearHighlight"
	}
	if c.doc == nil {
		return nil, &CommandError{Name: name, Message: "no document bound"}
	}
	var (
		n   int
		err error
	)
	if on {
		n, err = c.doc.Highlight()
	} else {
		n, err = c.doc.ClearHighlight()
	}
	if err != nil {
		return nil, err
	}
	return &CommandResult{Command: name, Data: map[string]any{"units": n}}, nil
}

func floatArg(command string, args map[string]any, key string) (float64, error) {
	v, ok := args[key]
	if !ok {
		return 0, &CommandError{Name: command, Message: fmt.Sprintf("missing argument %q", key)}
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, &CommandError{Name: command, Message: fmt.Sprintf("argument %q must be a number", key)}
	}
}
