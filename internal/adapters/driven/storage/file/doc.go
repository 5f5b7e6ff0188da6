// Package file implements the module and cartridge stores on the
// local filesystem. Modules and cartridges are plain files owned by
// the user's editor and the console; this adapter only maps symbolic
// names to paths and keeps cartridge writes atomic.
package file
