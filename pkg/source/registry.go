package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/skm-dev/skm/pkg/bundle"
	"github.com/skm-dev/skm/pkg/logger"
)

// BundleNotFoundError reports a bundle name that matched nothing across
// the configured sources, in priority order.
type BundleNotFoundError struct {
	Name     string
	Searched []string
}

func (e *BundleNotFoundError) Error() string {
	if len(e.Searched) == 0 {
		return fmt.Sprintf("bundle %q not found (no sources configured)", e.Name)
	}
	return fmt.Sprintf("bundle %q not found in any source (searched: %s)", e.Name, strings.Join(e.Searched, ", "))
}

// Registry holds the configured sources in priority order: index 0 is the
// highest priority, and on bundle name collisions the earlier source wins.
type Registry struct {
	sources []Source
}

// NewRegistry creates a registry over an ordered source list.
func NewRegistry(sources ...Source) *Registry {
	return &Registry{sources: sources}
}

// Sources returns the sources in priority order.
func (r *Registry) Sources() []Source {
	return r.sources
}

// Listing pairs a source with its bundles.
type Listing struct {
	Source  Source
	Bundles []bundle.Bundle
}

// List scans all sources in priority order and merges their bundles.
// Duplicate names are dropped in favor of the earlier source with a
// warning. Per-item problems are logged; an unavailable source fails the
// whole listing.
func (r *Registry) List(ctx context.Context) ([]bundle.Bundle, error) {
	listings, err := r.ListBySource(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.G(ctx)
	seen := map[string]string{}
	var merged []bundle.Bundle
	for _, listing := range listings {
		for _, b := range listing.Bundles {
			if winner, ok := seen[b.Name]; ok {
				log.WithField("bundle", b.Name).
					WithField("source", listing.Source.DisplayPath()).
					Warnf("bundle name already provided by %s, skipping", winner)
				continue
			}
			seen[b.Name] = listing.Source.DisplayPath()
			merged = append(merged, b)
		}
	}
	return merged, nil
}

// ListBySource scans all sources in priority order, keeping per-source
// grouping. Per-item scan problems are logged as warnings.
func (r *Registry) ListBySource(ctx context.Context) ([]Listing, error) {
	log := logger.G(ctx)

	var listings []Listing
	for _, src := range r.sources {
		bundles, problems, err := src.ListBundles(ctx)
		if err != nil {
			return nil, err
		}
		if err := bundle.ProblemsError(problems); err != nil {
			log.WithField("source", src.DisplayPath()).WithError(err).Warn("skipped items during source scan")
		}
		listings = append(listings, Listing{Source: src, Bundles: bundles})
	}
	return listings, nil
}

// FindBundle searches the sources in priority order for a bundle by exact
// name. A miss returns BundleNotFoundError carrying the searched sources.
func (r *Registry) FindBundle(ctx context.Context, name string) (*bundle.Bundle, Source, error) {
	var searched []string
	for _, src := range r.sources {
		bundles, _, err := src.ListBundles(ctx)
		if err != nil {
			return nil, nil, err
		}
		searched = append(searched, src.DisplayPath())
		for i := range bundles {
			if bundles[i].Name == name {
				return &bundles[i], src, nil
			}
		}
	}
	return nil, nil, &BundleNotFoundError{Name: name, Searched: searched}
}

// FindSource resolves a source by its configured label.
func (r *Registry) FindSource(label string) Source {
	for _, src := range r.sources {
		if src.Label() == label {
			return src
		}
	}
	return nil
}

// BundleNames returns every bundle name visible across the sources, after
// collision resolution. Used to disambiguate compound installed names.
func (r *Registry) BundleNames(ctx context.Context) ([]string, error) {
	bundles, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(bundles))
	for _, b := range bundles {
		names = append(names, b.Name)
	}
	return names, nil
}
