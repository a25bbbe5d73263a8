// Package packing implements the payload transforms behind UM packing codes.
//
// The lbpack word of a field is read as decimal digits N4N3N2N1. N1 selects
// the packing method, N2 selects data compression (0 none, 2 land/sea point
// compression) and N3 selects which points of a land/sea mask are stored
// (1 land, 2 sea). N4 is the number format and is handled by the caller.
//
// # Supported Methods
//
//   - Unpacked (N1 = 0): words of the file's native size via [Unpacked].
//   - WGDOS (N1 = 1): row-wise quantised packing via [WGDOS].
//   - 32-bit (N1 = 2): IEEE values narrowed to 4-byte words via [Narrowed].
//
// Other methods are recognised by [New] so that error messages can name
// them, but cannot be decoded.
//
// # Land/Sea Compression
//
// Fields compressed to land or sea points store only the selected points.
// [Points] and [PointsExcept] build the point sets from a land/sea mask as
// roaring bitmaps; [Scatter] expands stored points back onto the grid and
// [Gather] compresses a grid to the selected points.
package packing
