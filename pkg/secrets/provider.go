package secrets

import (
	"context"
	"fmt"
)

// Provider retrieves secrets from a backend.
type Provider interface {
	// GetSecret retrieves a secret by name. Returns an error if the
	// secret is not found or cannot be retrieved.
	GetSecret(ctx context.Context, name string) (string, error)

	// Provider returns the provider name (env, file).
	Provider() string
}

// NotFoundError is returned when no provider can supply a secret.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("secret not found: %s", e.Name)
}

// Chain tries each provider in order and returns the first hit.
type Chain struct {
	providers []Provider
}

// NewChain creates a provider chain. Earlier providers win.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// GetSecret returns the first provider's value for name, or a
// NotFoundError when every provider misses.
func (c *Chain) GetSecret(ctx context.Context, name string) (string, error) {
	for _, p := range c.providers {
		value, err := p.GetSecret(ctx, name)
		if err == nil {
			return value, nil
		}
	}
	return "", &NotFoundError{Name: name}
}

// Provider returns the chain provider name.
func (c *Chain) Provider() string {
	return "chain"
}
