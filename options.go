// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package cvtpmesh

import (
	"fmt"
	"log/slog"
	"runtime"
)

const (
	defaultSpacingFactor = 0.618
	defaultCornerAngle   = 100
	defaultMaxRetries    = 8
	defaultEps           = 1e-12

	// Draw budget per missing point when MaxDraws is not set.
	drawsPerPoint = 100
)

type Options struct {
	// SpacingFactor scales the mean incident edge length into a node radius.
	SpacingFactor float64
	// CornerAngle in degrees; corners below it are sharp.
	CornerAngle float64
	Seed        int64
	// MaxDraws caps candidate draws per sampling attempt. Zero scales with the deficit.
	MaxDraws   int
	MaxRetries int
	Workers    int
	Eps        float64
	Logger     *slog.Logger
}

type Option func(*Options) error

func defaultOptions() Options {
	return Options{
		SpacingFactor: defaultSpacingFactor,
		CornerAngle:   defaultCornerAngle,
		MaxRetries:    defaultMaxRetries,
		Workers:       runtime.GOMAXPROCS(0),
		Eps:           defaultEps,
		Logger:        slog.New(slog.DiscardHandler),
	}
}

// WithSpacingFactor sets c in r = c * mean edge length. Values at or below 0.5 leave the
// two boundary circles of an edge without intersection.
func WithSpacingFactor(c float64) Option {
	return func(o *Options) error {
		if c <= 0.5 || c > 1.5 {
			return fmt.Errorf("%w: WithSpacingFactor: c must be in (0.5, 1.5], got %v",
				ErrInvalidArgument, c)
		}
		o.SpacingFactor = c
		return nil
	}
}

func WithCornerAngle(degrees float64) Option {
	return func(o *Options) error {
		if degrees <= 0 || degrees > 180 {
			return fmt.Errorf("%w: WithCornerAngle: angle must be in (0, 180], got %v",
				ErrInvalidArgument, degrees)
		}
		o.CornerAngle = degrees
		return nil
	}
}

// WithSeed sets the base seed of interior sampling. Subdomain id is added per subdomain.
func WithSeed(seed int64) Option {
	return func(o *Options) error {
		o.Seed = seed
		return nil
	}
}

func WithMaxDraws(n int) Option {
	return func(o *Options) error {
		if n < 0 {
			return fmt.Errorf("%w: WithMaxDraws: negative draw budget %d", ErrInvalidArgument, n)
		}
		o.MaxDraws = n
		return nil
	}
}

func WithMaxRetries(n int) Option {
	return func(o *Options) error {
		if n < 0 {
			return fmt.Errorf("%w: WithMaxRetries: negative retry count %d", ErrInvalidArgument, n)
		}
		o.MaxRetries = n
		return nil
	}
}

func WithWorkers(n int) Option {
	return func(o *Options) error {
		if n < 1 {
			return fmt.Errorf("%w: WithWorkers: need at least one worker, got %d",
				ErrInvalidArgument, n)
		}
		o.Workers = n
		return nil
	}
}

func WithEps(eps float64) Option {
	return func(o *Options) error {
		if eps <= 0 {
			return fmt.Errorf("%w: WithEps: eps must be positive, got %v", ErrInvalidArgument, eps)
		}
		o.Eps = eps
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) error {
		if logger == nil {
			return fmt.Errorf("%w: WithLogger: nil logger", ErrInvalidArgument)
		}
		o.Logger = logger
		return nil
	}
}
