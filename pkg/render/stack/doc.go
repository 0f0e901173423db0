// Package stack turns per-category counts into stacked bands.
//
// For every x value (a year) the bands are produced by walking the category
// order and accumulating counts:
//
//	y0[0] = 0
//	y0[k] = y1[k-1]
//	y1[k] = y0[k] + count(category[k], year)
//
// Missing categories count as zero, so every point carries one band per
// category and adjacent bands always touch. Curve fitting and area drawing
// belong to the renderer; this package only computes the numbers, including
// [MaxY] for axis scaling.
package stack
