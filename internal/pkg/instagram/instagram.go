// Package instagram is a placeholder social-post adapter.
package instagram

import (
	"context"
	"errors"
)

// ErrNotImplemented is returned by every Post call. A real implementation
// must first upload the images to a publicly reachable URL, since the Graph
// API only accepts image URLs, not uploads.
var ErrNotImplemented = errors.New("instagram posting is not implemented: images must be hosted at a public URL before calling the platform API")

// Adapter posts a rendered gallery to Instagram. Currently a stub.
type Adapter struct{}

// New creates the adapter.
func New() *Adapter {
	return &Adapter{}
}

// Post always fails with ErrNotImplemented.
func (a *Adapter) Post(ctx context.Context, imagePaths []string, caption string, config map[string]interface{}) (string, error) {
	return "", ErrNotImplemented
}
