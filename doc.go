// Package texatlas packs many small images into one texture and hands out
// regions that address them by texture coordinates.
//
// # Overview
//
// A TextureAtlas owns a square canvas texture. Images are registered as
// Pixmaps (or read back from existing textures), packed by the packer
// package, composed into the canvas and uploaded in one call. Each image is
// then addressed by its insertion index:
//
//	atlas, err := texatlas.NewFromPixmaps([]*texatlas.Pixmap{icon, cursor},
//	    texatlas.WithCanvasSize(512),
//	    texatlas.WithPadding(1),
//	)
//	if err != nil {
//	    return err
//	}
//	defer atlas.Close()
//
//	region := atlas.Get(1) // cursor
//	defer region.Release()
//	draw(region.Texture(), region.U0, region.V0, region.U1, region.V1)
//
// Indices never change. Adding images later repacks the whole atlas, so
// placements and UVs of existing images may move; regions obtained before
// the repack report Stale.
//
// # Textures
//
// The atlas texture comes from a TextureFactory. SoftwareFactory keeps the
// pixels in memory and is the default. GPU-backed factories live in the gpu
// package (gogpu HAL devices) and under backend/ (OpenGL, Ebitengine).
// Textures are shared through SharedTexture, which counts references and
// destroys the texture when the last one is released.
//
// # Pixel formats
//
// PixelFormat combines a component layout (R, RG, RGB, RGBA) with a channel
// type (8-bit unsigned, 8-bit signed, 32-bit float). Images are converted to
// the atlas format when they are registered.
//
// # Logging
//
// The package logs through log/slog and is silent by default. See SetLogger.
//
// # Related packages
//
//   - packer: rectangle packing into a square canvas
//   - manifest: TOML-described atlases built from image files
//   - glyph: atlases of rasterized font glyphs
//   - layoutcache: LevelDB-backed cache of packing results
package texatlas
