// Package header implements the header components of a UM file.
//
// A UM file begins with a fixed length header of 256 words. The fixed
// header records the start position and dimensions of each of the optional
// header components that follow it, of the lookup table and of the data
// section.
//
// # Components
//
// Three component shapes occur in practice:
//
//   - [Integers]: a 1-D block of integer words (integer constants, extra
//     constants, compressed field indices).
//   - [Reals]: a 1-D block of real words (real constants).
//   - [Reals2D]: a 2-D block of real words stored column-major exactly as
//     on disk (level, row and column dependent constants).
//
// # Naming
//
// Every component can carry a [Mapping] from a symbolic name to a 1-based
// word position, matching the numbering used by the format documentation.
// For 2-D components the name addresses a whole column. Storage is 0-based
// and the translation happens only in the accessors.
//
// # Missing data
//
// Unset integer words hold [MDI] (-32768) and unset real words hold
// [RealMDI] (-1073741824.0).
package header
