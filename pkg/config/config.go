package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNoValue indicates no value was set for the config
	ErrNoValue = errors.New("config: no value set")

	// ErrShutdown indicates the use of a Config after calling Shutdown
	ErrShutdown = errors.New("config: shutdown")
)

// Config is a source of a single untyped configuration value.
type Config interface {
	// Get returns the latest config value, or ErrNoValue when unset
	Get(ctx context.Context) (interface{}, error)

	// Shutdown signals the config to stop all underlying resources
	Shutdown()
}

// NoopConfig is a config that never yields a value, so typed wrappers over it
// always resolve to their default.
var NoopConfig = &noopConfig{}

type noopConfig struct{}

func (*noopConfig) Get(_ context.Context) (interface{}, error) {
	return nil, ErrNoValue
}

func (*noopConfig) Shutdown() {
}

// Typed is a config that converts its source value to T, falling back to a
// default when the source has no value.
type Typed[T any] interface {
	// Get returns the current value, ignoring conversion and source errors
	Get(ctx context.Context) T

	// GetSafe returns the current value and any error observed. On error the
	// last known good value is returned.
	GetSafe(ctx context.Context) (T, error)

	Shutdown()
}

type (
	Bool     = Typed[bool]
	Duration = Typed[time.Duration]
	Uint64   = Typed[uint64]
	String   = Typed[string]
)
