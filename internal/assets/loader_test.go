package assets

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeEnv counts injections per URL and lets tests script failures.
type fakeEnv struct {
	mu          sync.Mutex
	injected    map[string]int
	order       []string
	faces       map[string]int
	failURL     string
	failCount   int
	runtimeUp   bool
	neverReady  bool
	readyChecks int
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		injected: make(map[string]int),
		faces:    make(map[string]int),
	}
}

func (e *fakeEnv) Inject(ctx context.Context, res Resource) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.injected[res.URL]++
	e.order = append(e.order, res.URL)

	if res.URL == e.failURL && e.failCount > 0 {
		e.failCount--
		return errors.New("network error")
	}

	if res.Kind == KindScript && res.URL == "https://cdn.test/core.js" {
		e.runtimeUp = true
	}
	return nil
}

func (e *fakeEnv) RegisterFace(ctx context.Context, face FontFace) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.faces[face.URL]++
	return nil
}

func (e *fakeEnv) RuntimeReady(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.readyChecks++
	if e.neverReady || !e.runtimeUp {
		return errors.New("no global entry point")
	}
	return nil
}

func testSet() Set {
	return Set{
		Core: Resource{URL: "https://cdn.test/core.js", Kind: KindScript},
		Plugins: []Resource{
			{URL: "https://cdn.test/widgets.js", Kind: KindScript},
			{URL: "https://cdn.test/tables.js", Kind: KindScript},
		},
		Stylesheets: []Resource{
			{URL: "https://cdn.test/bridge.css", Kind: KindStylesheet},
		},
		Fonts: []FontFace{
			{Family: "Source Sans Pro", Weight: 400, URL: "https://cdn.test/ssp-400.woff2"},
			{Family: "Source Sans Pro", Weight: 700, URL: "https://cdn.test/ssp-700.woff2"},
		},
	}
}

func TestEnsureLoadsEverythingOnce(t *testing.T) {
	env := newFakeEnv()
	loader := NewLoader(env, testSet())

	if err := loader.Ensure(context.Background()); err != nil {
		t.Fatalf("Error ensuring assets: %v", err)
	}

	for url, n := range env.injected {
		if n != 1 {
			t.Errorf("Expected %s injected once, got %d", url, n)
		}
	}
	if len(env.injected) != 4 {
		t.Errorf("Expected 4 injected resources, got %d", len(env.injected))
	}
	if len(env.faces) != 2 {
		t.Errorf("Expected 2 registered font faces, got %d", len(env.faces))
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	env := newFakeEnv()
	loader := NewLoader(env, testSet())

	for i := 0; i < 3; i++ {
		if err := loader.Ensure(context.Background()); err != nil {
			t.Fatalf("Error on Ensure call %d: %v", i+1, err)
		}
	}

	if env.injected["https://cdn.test/core.js"] != 1 {
		t.Errorf("Expected core injected once across repeated calls, got %d",
			env.injected["https://cdn.test/core.js"])
	}
}

func TestEnsureCoalescesConcurrentCallers(t *testing.T) {
	env := newFakeEnv()
	loader := NewLoader(env, testSet())

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = loader.Ensure(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Caller %d got error: %v", i, err)
		}
	}

	for url, n := range env.injected {
		if n != 1 {
			t.Errorf("Expected %s injected once under concurrency, got %d", url, n)
		}
	}
}

func TestEnsureLoadsCoreFirst(t *testing.T) {
	env := newFakeEnv()
	loader := NewLoader(env, testSet())

	if err := loader.Ensure(context.Background()); err != nil {
		t.Fatalf("Error ensuring assets: %v", err)
	}

	if len(env.order) == 0 || env.order[0] != "https://cdn.test/core.js" {
		t.Errorf("Expected core bundle injected first, got order %v", env.order)
	}
}

func TestEnsureRetriesAfterFailure(t *testing.T) {
	env := newFakeEnv()
	env.failURL = "https://cdn.test/core.js"
	env.failCount = 1
	loader := NewLoader(env, testSet())

	if err := loader.Ensure(context.Background()); err == nil {
		t.Fatal("Expected first Ensure to fail")
	}

	// The failure must not be memoized: the next attempt reloads the core.
	if err := loader.Ensure(context.Background()); err != nil {
		t.Fatalf("Expected retry to succeed, got: %v", err)
	}

	if env.injected["https://cdn.test/core.js"] != 2 {
		t.Errorf("Expected 2 core load attempts, got %d", env.injected["https://cdn.test/core.js"])
	}
}

func TestEnsureFailsWhenRuntimeNeverAppears(t *testing.T) {
	env := newFakeEnv()
	env.neverReady = true
	loader := NewLoader(env, testSet(), WithTimeout(150*time.Millisecond))

	err := loader.Ensure(context.Background())
	if err == nil {
		t.Fatal("Expected Ensure to fail when entry point never appears")
	}
	if !errors.Is(err, ErrRuntimeUnavailable) {
		t.Errorf("Expected ErrRuntimeUnavailable, got: %v", err)
	}
	if env.readyChecks < 2 {
		t.Errorf("Expected the loader to poll for readiness, got %d checks", env.readyChecks)
	}
}
