// Package field provides the dense two-dimensional scalar grid the
// reaction-diffusion solver works on.
//
// A [Grid] is square, row-major and periodic: every index passed to
// [Grid.At] or [Grid.Set] is wrapped modulo the grid size, so the grid
// behaves like a torus and out-of-range access is never an error.
//
//   - [Grid]: n×n float64 field with wrap-around indexing
//   - [Padded]: (n+2)×(n+2) ghost-node copy of a grid
//   - [Pool]: recycles scratch grids of a fixed size
//
// # Ownership
//
// Grids are not safe for concurrent mutation. Concurrent readers are fine,
// and concurrent writers are fine as long as they touch disjoint rows.
package field
