// Package gpu uploads texture atlases to a wgpu/hal device.
//
// A Factory creates GPU textures for texatlas.TextureAtlas. Each texture
// keeps a CPU shadow copy of its contents so the atlas can read it back
// without a GPU round trip.
//
// Usage with a shared device from gogpu:
//
//	factory, err := gpu.NewFactoryFromProvider(provider)
//	if err != nil {
//	    return err
//	}
//	atlas, err := texatlas.New(texatlas.WithTextureFactory(factory.Create))
//
// Sprites sampled from the atlas are drawn with the WGSL program returned by
// SpriteShaderSource; AppendQuad builds the matching vertices from a
// texatlas.TextureRegion.
package gpu
