// Package analysis characterises Gray-Scott patterns.
//
//   - [Spectrum]: radially averaged 2-D power spectrum of a field
//   - [RadialSpectrum.Dominant]: wavenumber of the strongest non-constant mode
//   - [Describe]: summary statistics of a field
//   - [Oscillation]: dominant period of a scalar history such as mean U
//
// Spot and stripe patterns have a characteristic length scale, which shows
// up as a single peak in the radial spectrum:
//
//	spec, err := analysis.Spectrum(snap.N, snap.U)
//	k := spec.Dominant()
//	wavelength := spec.Wavelength(k, h)
package analysis
