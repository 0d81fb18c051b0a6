// Package homeassistant provides the entity cache used to resolve
// human-readable device names to entity IDs.
package homeassistant

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultCacheTTL is the maximum age of a cached entity list before the next
// lookup refetches it from Home Assistant.
const DefaultCacheTTL = 5 * time.Minute

// statesFetcher is the subset of the REST client the cache depends on.
type statesFetcher interface {
	GetStates(ctx context.Context) ([]Entity, error)
}

// cacheEntry holds the entities of one domain and the time they were fetched.
type cacheEntry struct {
	entities  []Entity
	fetchedAt time.Time
}

// EntityCache maps an entity domain to its entity list, refreshed on a TTL.
// Entries are replaced wholesale on expiry, never partially merged.
// Invalidation is otherwise time-based only: a service call that mutates an
// entity does not refresh it, so reads are eventually consistent within the
// TTL window.
type EntityCache struct {
	mu      sync.Mutex
	fetch   statesFetcher
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewEntityCache creates an entity cache backed by the given fetcher.
// A non-positive ttl selects DefaultCacheTTL.
func NewEntityCache(fetch statesFetcher, ttl time.Duration) *EntityCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &EntityCache{
		fetch:   fetch,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Entities returns the entities of a domain, sorted by entity ID. An empty
// domain selects all entities. A cache entry within the TTL is returned
// without network I/O; otherwise all states are fetched and the entry is
// rebuilt.
func (c *EntityCache) Entities(ctx context.Context, domain string) ([]Entity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[domain]; ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		return entry.entities, nil
	}

	states, err := c.fetch.GetStates(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]Entity, 0)
	if domain == "" {
		filtered = append(filtered, states...)
	} else {
		prefix := domain + "."
		for _, e := range states {
			if strings.HasPrefix(e.EntityID, prefix) {
				filtered = append(filtered, e)
			}
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].EntityID < filtered[j].EntityID
	})

	c.entries[domain] = cacheEntry{entities: filtered, fetchedAt: c.now()}
	return filtered, nil
}

// ResolveByName resolves a friendly name or entity ID to an entity within a
// domain. Friendly names are matched case-insensitively; when no friendly
// name matches, an exact entity ID match is tried. Returns
// *EntityNotFoundError when nothing matches and *AmbiguousEntityError when
// several entities share the queried friendly name.
func (c *EntityCache) ResolveByName(ctx context.Context, domain, query string) (*Entity, error) {
	entities, err := c.Entities(ctx, domain)
	if err != nil {
		return nil, err
	}

	wanted := strings.ToLower(strings.TrimSpace(query))

	var matches []Entity
	for i := range entities {
		if strings.ToLower(entities[i].FriendlyName()) == wanted {
			matches = append(matches, entities[i])
		}
	}

	switch len(matches) {
	case 1:
		return &matches[0], nil
	case 0:
		// Fall back to an exact entity ID match.
		for i := range entities {
			if entities[i].EntityID == query {
				return &entities[i], nil
			}
		}
		return nil, &EntityNotFoundError{Domain: domain, Query: query}
	default:
		candidates := make([]string, len(matches))
		for i, m := range matches {
			candidates[i] = m.EntityID
		}
		return nil, &AmbiguousEntityError{Domain: domain, Query: query, Candidates: candidates}
	}
}

// Invalidate drops the cache entry for a domain so the next lookup refetches.
// The all-domains entry covers every domain, so it is dropped too.
func (c *EntityCache) Invalidate(domain string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, domain)
	if domain != "" {
		delete(c.entries, "")
	}
}

// InvalidateAll drops every cache entry.
func (c *EntityCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// TTL returns the configured time-to-live.
func (c *EntityCache) TTL() time.Duration {
	return c.ttl
}
