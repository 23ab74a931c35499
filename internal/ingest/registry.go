package ingest

import (
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/citymood/citymood-cli/internal/config"
)

// Registry maps feed names to their implementations.
type Registry struct {
	feeds map[string]Feed
	order []string // insertion order for deterministic iteration
}

// NewRegistry creates a registry populated with all four league feeds,
// resolving raw file paths against the configured data directory.
func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{feeds: make(map[string]Feed)}
	dir := cfg.Data.Dir

	r.Register(NewNHLFeed(filepath.Join(dir, cfg.Feeds.NHLGames)))
	r.Register(NewNBAFeed(filepath.Join(dir, cfg.Feeds.NBAGames), filepath.Join(dir, cfg.Feeds.NBARoster)))
	r.Register(NewMLBFeed(filepath.Join(dir, cfg.Feeds.MLBGames), filepath.Join(dir, cfg.Feeds.MLBNames)))
	r.Register(NewNFLFeed(filepath.Join(dir, cfg.Feeds.NFLGames)))

	return r
}

// Register adds a feed to the registry.
func (r *Registry) Register(f Feed) {
	name := f.Name()
	r.feeds[name] = f
	r.order = append(r.order, name)
}

// Get returns a feed by name.
func (r *Registry) Get(name string) (Feed, error) {
	f, ok := r.feeds[name]
	if !ok {
		return nil, eris.Errorf("ingest: unknown feed %q (valid: %v)", name, r.order)
	}
	return f, nil
}

// Select returns the named feeds, or all feeds when names is empty.
func (r *Registry) Select(names []string) ([]Feed, error) {
	if len(names) == 0 {
		return r.All(), nil
	}
	result := make([]Feed, 0, len(names))
	for _, name := range names {
		f, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, nil
}

// All returns all feeds in registration order.
func (r *Registry) All() []Feed {
	result := make([]Feed, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.feeds[name])
	}
	return result
}

// AllNames returns all registered feed names in registration order.
func (r *Registry) AllNames() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
