// Package compress shrinks ingested images by shelling out to ImageMagick.
//
// Compression is best effort: when the tool is missing or fails the original
// file is left in place and the caller decides whether that is fatal. A size
// budget of -1 disables the size pass and a width of -1 disables resizing.
package compress
