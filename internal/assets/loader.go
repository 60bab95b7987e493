// Package assets loads the external BokehJS resources a page needs exactly
// once per process, no matter how many widget instances ask for them.
package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrRuntimeUnavailable is returned when the core bundle loaded but the
// library's global entry point never appeared within the timeout. Plugins
// assume the entry point exists, so this aborts the whole load.
var ErrRuntimeUnavailable = errors.New("charting runtime entry point not available")

// Environment is the rendering surface the loader injects resources into.
// The dev server's page builder implements it server-side; a browser-backed
// host would implement it against the real document.
type Environment interface {
	// Inject places the resource and returns once its load event fired, or
	// with an error if the load failed. Injecting a URL that is already
	// present should detect that and return immediately.
	Inject(ctx context.Context, res Resource) error

	// RegisterFace constructs a font face and registers it with the
	// document's font registry, returning once the face is usable.
	RegisterFace(ctx context.Context, face FontFace) error

	// RuntimeReady reports whether the library's global entry point exists.
	RuntimeReady(ctx context.Context) error
}

// Loader coalesces resource loads process-wide. The zero value is not usable;
// construct with NewLoader.
//
// Loads for the same URL share a single outcome: concurrent first requests
// join the in-flight load, and later requests return immediately once it
// succeeded. A failed load is not remembered, so the next render attempt
// retries it from scratch.
type Loader struct {
	env     Environment
	set     Set
	timeout time.Duration

	group  singleflight.Group
	mu     sync.Mutex
	loaded map[string]bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithTimeout caps each individual resource load. The default is 8 seconds.
func WithTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = timeout
	}
}

// NewLoader creates a loader for the given resource set.
func NewLoader(env Environment, set Set, options ...LoaderOption) *Loader {
	loader := &Loader{
		env:     env,
		set:     set,
		timeout: 8 * time.Second,
		loaded:  make(map[string]bool),
	}

	for _, option := range options {
		option(loader)
	}

	return loader
}

// Ensure makes every resource in the set available. It is safe to call from
// any number of instances concurrently; after the first success, subsequent
// calls return immediately.
//
// The core bundle is loaded and confirmed present before any plugin,
// stylesheet, or font starts, since the plugins dereference the core's
// global entry point at evaluation time. Everything after the core loads
// concurrently.
func (l *Loader) Ensure(ctx context.Context) error {
	if err := l.once(ctx, l.set.Core.URL, func(ctx context.Context) error {
		if err := l.env.Inject(ctx, l.set.Core); err != nil {
			return err
		}
		return l.awaitRuntime(ctx)
	}); err != nil {
		return fmt.Errorf("loading core bundle %s: %w", l.set.Core.URL, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, plugin := range l.set.Plugins {
		plugin := plugin
		g.Go(func() error {
			if err := l.once(gctx, plugin.URL, func(ctx context.Context) error {
				return l.env.Inject(ctx, plugin)
			}); err != nil {
				return fmt.Errorf("loading plugin %s: %w", plugin.URL, err)
			}
			return nil
		})
	}

	for _, sheet := range l.set.Stylesheets {
		sheet := sheet
		g.Go(func() error {
			if err := l.once(gctx, sheet.URL, func(ctx context.Context) error {
				return l.env.Inject(ctx, sheet)
			}); err != nil {
				return fmt.Errorf("loading stylesheet %s: %w", sheet.URL, err)
			}
			return nil
		})
	}

	for _, face := range l.set.Fonts {
		face := face
		g.Go(func() error {
			key := fmt.Sprintf("%s#%d", face.URL, face.Weight)
			if err := l.once(gctx, key, func(ctx context.Context) error {
				return l.env.RegisterFace(ctx, face)
			}); err != nil {
				return fmt.Errorf("registering font %s weight %d: %w", face.Family, face.Weight, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// once runs fn at most once per key across all concurrent callers.
// Successful keys are recorded for the lifetime of the loader; failures are
// shared by the callers that joined the attempt but leave no record behind.
func (l *Loader) once(ctx context.Context, key string, fn func(context.Context) error) error {
	l.mu.Lock()
	done := l.loaded[key]
	l.mu.Unlock()
	if done {
		return nil
	}

	_, err, _ := l.group.Do(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(ctx, l.timeout)
		defer cancel()

		if err := fn(loadCtx); err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.loaded[key] = true
		l.mu.Unlock()
		return nil, nil
	})
	return err
}

// awaitRuntime polls for the global entry point until it appears or the
// load context expires.
func (l *Loader) awaitRuntime(ctx context.Context) error {
	const interval = 50 * time.Millisecond

	for {
		err := l.env.RuntimeReady(ctx)
		if err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrRuntimeUnavailable, err)
		case <-time.After(interval):
		}
	}
}
