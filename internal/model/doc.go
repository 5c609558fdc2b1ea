// Package model holds the Gray-Scott parameters and reaction kinetics.
//
// The two species evolve as
//
//	∂u/∂t = Du ∇²u - u v² + F (1 - u)
//	∂v/∂t = Dv ∇²v + u v² - (F + k) v
//
// [Reaction] computes the shared autocatalytic term u v² cell-wise, and
// [Params.RateU] / [Params.RateV] combine it with a Laplacian value into the
// local time derivative of each species.
package model
