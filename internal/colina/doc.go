// Package colina provides the Colina, Bohlin & Castelli (1996) solar flux
// density at 1 AU as a tabulated function of wavelength.
//
// The table spans 0.1195-2.5 microns at irregular spacing. It is stored as
// solar F and multiplied by pi on load, so Spectrum.Flux is the flux density
// in W/m^2/Hz. Wavelengths are in microns.
//
// Default returns a process-wide instance built once on first use and never
// modified afterwards. Load builds a fresh, independently owned instance.
package colina
