package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"golang.org/x/exp/slog"
)

var ErrNoLocator = errors.New("no location command configured")

// Position is a geographic coordinate as reported by the host.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Locator resolves the current position. Callers bound the wait with the
// context; there is no internal timeout.
type Locator interface {
	Current(ctx context.Context) (Position, error)
}

// CommandLocator runs the configured location command and parses its stdout
// as a JSON document with latitude/longitude fields (the shape emitted by
// termux-location, corelocationcli and similar helpers).
type CommandLocator struct {
	command []string
	log     *slog.Logger
}

func NewCommandLocator(command []string, log *slog.Logger) *CommandLocator {
	return &CommandLocator{
		command: command,
		log:     log.With("component", "locator"),
	}
}

func (l *CommandLocator) Current(ctx context.Context) (Position, error) {
	if len(l.command) == 0 {
		return Position{}, ErrNoLocator
	}

	out, err := exec.CommandContext(ctx, l.command[0], l.command[1:]...).Output()
	if err != nil {
		if ctx.Err() != nil {
			return Position{}, fmt.Errorf("location fetch: %w", ctx.Err())
		}
		return Position{}, fmt.Errorf("location command: %w", err)
	}

	var pos Position
	if err := json.Unmarshal(out, &pos); err != nil {
		return Position{}, fmt.Errorf("parse location output: %w", err)
	}

	l.log.Debug("position acquired", "latitude", pos.Latitude, "longitude", pos.Longitude)
	return pos, nil
}

// StaticLocator always reports a fixed position, for hosts without any
// location helper.
type StaticLocator struct {
	Position Position
}

func (l StaticLocator) Current(_ context.Context) (Position, error) {
	return l.Position, nil
}
