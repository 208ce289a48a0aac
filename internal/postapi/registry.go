package postapi

import (
	"fmt"

	"github.com/mrlokans/postbrowser/internal/entities"
)

// Registry resolves site names to clients. It is read-only after construction
// and safe for concurrent use.
type Registry struct {
	clients map[entities.Site]Client
	order   []entities.Site
}

// NewRegistry creates a registry holding the given clients in order.
func NewRegistry(clients ...Client) *Registry {
	r := &Registry{clients: make(map[entities.Site]Client, len(clients))}
	for _, c := range clients {
		if _, exists := r.clients[c.Site()]; !exists {
			r.order = append(r.order, c.Site())
		}
		r.clients[c.Site()] = c
	}
	return r
}

// NewDefaultRegistry builds generic clients for the built-in sites plus
// extra, which replace built-ins of the same name. When enabled is non-empty
// only those sites are registered.
func NewDefaultRegistry(opts Options, enabled []string, extra ...SiteConfig) (*Registry, error) {
	var sites []SiteConfig
	index := make(map[string]int)
	known := make(map[string]SiteConfig)
	for _, s := range append(DefaultSites(), extra...) {
		name := s.Site.String()
		if i, exists := index[name]; exists {
			sites[i] = s
		} else {
			index[name] = len(sites)
			sites = append(sites, s)
		}
		known[name] = s
	}

	var selected []SiteConfig
	if len(enabled) == 0 {
		selected = sites
	} else {
		for _, name := range enabled {
			cfg, ok := known[entities.ParseSite(name).String()]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownSite, name)
			}
			selected = append(selected, cfg)
		}
	}

	clients := make([]Client, 0, len(selected))
	for _, cfg := range selected {
		clients = append(clients, NewGenericClient(cfg, opts))
	}
	return NewRegistry(clients...), nil
}

// Get returns the client for site.
func (r *Registry) Get(site entities.Site) (Client, error) {
	c, ok := r.clients[site]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSite, site)
	}
	return c, nil
}

// Lookup resolves a user-supplied site name.
func (r *Registry) Lookup(name string) (Client, error) {
	return r.Get(entities.ParseSite(name))
}

// Clients returns every registered client in registration order.
func (r *Registry) Clients() []Client {
	out := make([]Client, 0, len(r.order))
	for _, site := range r.order {
		out = append(out, r.clients[site])
	}
	return out
}
