package provider

import (
	"errors"
	"fmt"
)

// ErrUnknownProvider is returned for a route provider name that was not
// configured; the handler maps it to 404 on begin and to the failure
// redirect on callback.
var ErrUnknownProvider = errors.New("unknown oauth provider")

// Registry resolves the :provider route segment to a configured client.
// The gateway currently registers only GitHub.
type Registry struct {
	byName map[string]OAuthProvider
}

func NewRegistry(providers ...OAuthProvider) *Registry {
	byName := make(map[string]OAuthProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Registry{byName: byName}
}

// Get is also used to keep caller-supplied names out of metric labels,
// so it must never register anything as a side effect.
func (r *Registry) Get(name string) (OAuthProvider, error) {
	if p, ok := r.byName[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}
