// Package alloc provides word position bookkeeping for UM file writing.
//
// A UM file is written front to back: the fixed length header, the header
// components, the lookup table and finally the field payloads, each payload
// padded to a whole sector. The [Allocator] records where each of these was
// placed so the fixed length header and lookup entries can point at them.
//
// # Allocator
//
//   - Append-only allocation: new allocations start at the current end of
//     file, which is then advanced.
//   - Aligned allocation: the end of file can be moved to a multiple of a
//     word count (a sector, or the data section alignment).
//   - Allocation tracking: every allocation is tagged and recorded so the
//     layout can be checked with [Allocator.Validate].
//
// # Usage
//
//	a := alloc.New(256)                    // after the fixed length header
//	ic := a.Alloc(46, "integer_constants") // word offset of the component
//	a.Align(512)                           // pad to the next sector
package alloc
