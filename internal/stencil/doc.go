// Package stencil evaluates the five-point Laplacian of a periodic grid.
//
//	lap[i,j] = (f[i-1,j] + f[i+1,j] + f[i,j-1] + f[i,j+1] - 4 f[i,j]) / h²
//
// Three strategies implement [Operator] and produce the same numbers:
//
//   - [Loop]: direct double loop, the reference implementation
//   - [Shift]: whole-array shifted copies combined in one pass
//   - [Convolution]: generic 3×3 kernel, kept as a cross-check
//
// Each strategy realises the periodic wrap either with modular index
// arithmetic ([Periodic]) or by reading a ghost-node padded buffer rebuilt
// once per call ([Ghost]). Loop and Shift are bit-identical in both modes;
// Convolution sums its nine taps in kernel order and agrees to rounding.
//
// # Small grids
//
// Operators accept any n ≥ 1. For n = 1 all four neighbours are the cell
// itself and the Laplacian is zero; for n = 2 the up/down and left/right
// neighbours coincide. Parameter validation rejects n < 3 before a
// simulation ever reaches this package.
//
// # Concurrency
//
// With more than one worker, rows are split into blocks evaluated on
// separate goroutines. Workers read only the source grid (or its padded
// copy, built before the fan-out) and write only their rows of dst; Apply
// returns after every worker is done.
//
// Operators keep scratch buffers between calls, so a single Operator must
// not be shared by goroutines calling Apply at the same time.
package stencil
