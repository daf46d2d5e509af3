// Package recognition finds checkers pieces in a board photograph.
//
// Detection is a three-stage pipeline over an imaging.Raster:
//
//  1. Extraction: the image is cut into square blocks. Each block is
//     classified as Blue, Red, Yellow or nothing from the sums of its color
//     channels (Classify). Every colored block becomes a SamplePoint at the
//     block center. Blue points feed the blue side, red points the red side,
//     and yellow points (the ring on a king) feed both.
//
//  2. Clustering: each side's points are grouped by single linkage. A point
//     joins the earliest-created cluster holding a compatible point closer
//     than the linkage radius, otherwise it starts a new cluster.
//
//  3. Validation: every cluster is finalized. Sparse clusters and clusters
//     without enough points of their dominant color are dropped; the rest
//     become ClusterResult values with a centroid, a side and a king flag.
//
// # Ordering
//
// Linkage depends on the order points arrive in. Points are always produced
// and consumed in block scan order (row-major, top to bottom), including when
// extraction runs on several goroutines, so a given image and Params always
// yields the same clusters.
//
// # Coordinates
//
// All positions are (row, col) pixel coordinates with the origin at the top
// left of the raster.
package recognition
