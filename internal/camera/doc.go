// Package camera provides the orthographic viewer camera.
//
// [Ortho] projects world points to normalized device coordinates and
// pixels. [Fit] computes the zoom that frames a set of boundary points with
// a margin, and [Controls] apply rotate, pan and zoom steps subject to the
// enable flags and speeds from the viewer options.
package camera
