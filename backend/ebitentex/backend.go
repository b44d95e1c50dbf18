package ebitentex

import (
	"github.com/gogpu/texatlas"
	"github.com/gogpu/texatlas/backend"
)

func init() {
	backend.Register(backend.BackendEbiten, func() backend.TextureBackend {
		return &Backend{}
	})
}

// Backend is the "ebiten" texture backend.
type Backend struct{}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.BackendEbiten }

// Init succeeds unconditionally; ebiten defers GPU work until the game loop runs.
func (b *Backend) Init() error { return nil }

// Close is a no-op.
func (b *Backend) Close() {}

// Factory returns Factory.
func (b *Backend) Factory() texatlas.TextureFactory { return Factory }
