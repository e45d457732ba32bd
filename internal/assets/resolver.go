package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tmorgan318/ravenshade/internal/logger"
)

// Kind selects the asset path template for an entity.
type Kind string

const (
	KindLocation Kind = "location"
	KindNPC      Kind = "npc"
)

// LoadState is the recorded outcome of the most recent preload attempt
// for an entity.
type LoadState int

const (
	LoadUnknown LoadState = iota
	LoadPending
	LoadOK
	LoadFailed
)

// World is the read-only view of the current snapshot the resolver needs
// to discard stale preload results.
type World interface {
	ContainsLocation(name string) bool
	ContainsNPC(name string) bool
	Generation() uint64
}

// Resolver maps entity names to cache-busted image URLs and tracks
// preload outcomes so the render layer can substitute a textual
// placeholder instead of a broken image.
type Resolver struct {
	baseURL string
	client  *http.Client
	world   World
	logger  *slog.Logger
	titler  cases.Caser

	mu     sync.RWMutex
	states map[string]LoadState
}

func NewResolver(client *http.Client, baseURL string, world World, log *slog.Logger) *Resolver {
	return &Resolver{
		baseURL: baseURL,
		client:  client,
		world:   world,
		logger:  log,
		titler:  cases.Title(language.English),
		states:  make(map[string]LoadState),
	}
}

// ImageURL builds the cache-busted URL for an entity image. The token
// forces a fresh fetch whenever the underlying image may have changed.
func (r *Resolver) ImageURL(kind Kind, name string, cacheToken int64) string {
	var path string
	switch kind {
	case KindNPC:
		path = "/assets/npcs/" + url.PathEscape(name) + ".png"
	default:
		path = "/assets/locations/" + url.PathEscape(name) + ".png"
	}
	return fmt.Sprintf("%s%s?v=%d", r.baseURL, path, cacheToken)
}

// Preload fetches the entity image once and records the outcome. A
// not-found response is an expected condition, recorded as a failure and
// recovered via Placeholder, never an error to propagate. Results for
// entities that have left the current snapshot by the time the fetch
// completes are dropped.
func (r *Resolver) Preload(ctx context.Context, kind Kind, name string, cacheToken int64) {
	gen := r.world.Generation()
	r.setState(kind, name, LoadPending)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.ImageURL(kind, name, cacheToken), nil)
	if err != nil {
		r.complete(kind, name, gen, false)
		return
	}

	resp, err := r.client.Do(req)
	if err != nil {
		logger.WithError(r.logger, err).Debug("asset preload failed", "kind", kind, "name", name)
		r.complete(kind, name, gen, false)
		return
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	r.complete(kind, name, gen, resp.StatusCode == http.StatusOK)
}

// complete records a preload outcome unless the entity is no longer part
// of the current snapshot.
func (r *Resolver) complete(kind Kind, name string, issuedGen uint64, ok bool) {
	if !r.current(kind, name) {
		r.logger.Debug("dropping stale asset result",
			"kind", kind, "name", name,
			"issued_gen", issuedGen, "current_gen", r.world.Generation())
		return
	}
	if ok {
		r.setState(kind, name, LoadOK)
	} else {
		r.setState(kind, name, LoadFailed)
	}
}

func (r *Resolver) current(kind Kind, name string) bool {
	if kind == KindNPC {
		return r.world.ContainsNPC(name)
	}
	return r.world.ContainsLocation(name)
}

// State returns the recorded load state for an entity.
func (r *Resolver) State(kind Kind, name string) LoadState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[stateKey(kind, name)]
}

// Placeholder returns the textual stand-in shown when an entity's image
// failed to load.
func (r *Resolver) Placeholder(name string) string {
	return fmt.Sprintf("[ %s ]", r.titler.String(name))
}

func (r *Resolver) setState(kind Kind, name string, st LoadState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[stateKey(kind, name)] = st
}

func stateKey(kind Kind, name string) string {
	return string(kind) + "/" + name
}
