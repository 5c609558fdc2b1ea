package model

import "github.com/san-kum/grayscott/internal/field"

// Reaction writes the autocatalytic term u·v·v into dst. u and v are only read.
func Reaction(dst, u, v *field.Grid) {
	field.MustMatch(dst, u, v)
	out, us, vs := dst.Cells(), u.Cells(), v.Cells()
	for k := range out {
		out[k] = us[k] * vs[k] * vs[k]
	}
}

// ReactionRows is Reaction restricted to rows [lo, hi), for row-parallel callers.
func ReactionRows(dst, u, v *field.Grid, lo, hi int) {
	n := dst.Size()
	out, us, vs := dst.Cells(), u.Cells(), v.Cells()
	for k := lo * n; k < hi*n; k++ {
		out[k] = us[k] * vs[k] * vs[k]
	}
}

// NewReaction returns u·v·v in a fresh grid.
func NewReaction(u, v *field.Grid) *field.Grid {
	dst := field.New(u.Size())
	Reaction(dst, u, v)
	return dst
}
