// Package cartridge models the composite cartridge document: an
// ordered sequence of tagged sections, one of which receives expanded
// module content.
//
// The package is strict about ownership: parsing partitions the input
// bytes without interpreting them, and serialising an unmodified
// document reproduces the input byte-for-byte. Merging replaces
// exactly one section body and touches nothing else, so graphics, map
// and sound data edited inside the console survive every sync.
package cartridge
