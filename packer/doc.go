// Package packer places rectangles into a bounded square canvas without
// overlap.
//
// A Packer collects sizes with Add and computes placements with Pack. Every
// Pack call starts from an empty canvas: sizes are pre-sorted (tallest first,
// then widest, then by insertion order), placed with the selected Heuristic,
// and the placements are finally put back into insertion order, so
// Result.Rects[i] always describes the i-th added size.
//
// Two heuristics are provided:
//
//   - Skyline: bottom-left skyline packing. Each rectangle goes where its
//     bottom edge ends up lowest, ties going to the narrowest skyline segment.
//     This is the default and wastes the least area for mixed sizes.
//   - Shelf: rectangles are placed left to right on horizontal shelves; a
//     new shelf opens below when the current ones are full. Fast and good
//     for uniformly sized images such as glyphs.
//
// Packing is deterministic: the same sizes in the same order always produce
// the same placements. When the sizes cannot fit, Pack returns a
// *CapacityError, which matches ErrCapacityExceeded with errors.Is.
package packer
