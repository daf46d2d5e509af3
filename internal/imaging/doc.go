// Package imaging provides image loading and pixel-buffer preparation for the
// checkers piece detector, plus the rendering helpers used to report results.
//
// This package owns everything between a file on disk and the decoded RGB
// buffer the recognition pipeline scans, and everything between a list of
// detected pieces and a picture a person can look at.
//
// # Coordinate System
//
// Two conventions meet here:
//   - image.Image APIs use (X, Y): X increases rightward, Y increases downward.
//   - Raster and the recognition package use (row, col): row == Y, col == X.
//
// Both are 0-based with the origin at the top-left pixel. Block and crop
// regions are inclusive at the top-left and exclusive at the bottom-right.
//
// # Raster
//
// A Raster is a tightly packed 8-bit RGB buffer in row-major order. It is
// immutable once built; FromImage and NewRaster validate the shape and
// return an *InputError for empty or inconsistent input, so the pipeline
// never sees a malformed buffer.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. A Raster may be read from
// any number of goroutines. Rendering functions allocate their own output and
// never modify the source image.
//
// # Error Handling
//
// Functions return errors for:
//   - File I/O and decoding failures during loading
//   - Malformed pixel buffers (*InputError)
//   - Invalid crop or marker parameters
//   - Encoding errors during image output
package imaging
