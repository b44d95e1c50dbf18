// Package backend selects where atlas textures live.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The software backend is automatically registered on import; the GPU
// backends register when their packages are imported:
//
//	import (
//		"github.com/gogpu/texatlas/backend"
//		_ "github.com/gogpu/texatlas/backend/ebitentex"
//		_ "github.com/gogpu/texatlas/backend/opengl"
//	)
//
// # Backend Selection
//
// Use InitDefault() to get the best backend that initializes, or Get() to
// request a specific backend by name:
//
//	b, err := backend.InitDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	atlas, err := texatlas.New(texatlas.WithTextureFactory(b.Factory()))
//
// The gpu package is not a registered backend because it needs an explicit
// hal device; pass gpu.Factory.Create to texatlas.WithTextureFactory instead.
package backend
