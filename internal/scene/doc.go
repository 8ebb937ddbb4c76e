// Package scene assembles the node tree drawn for a structure.
//
// A [Scene] is rebuilt from scratch on every load. Its root holds, in order,
// the boundary corners used for camera fitting, the conventional and
// primitive cell wireframes, the atoms, the bonds and the lattice parameter
// overlay. Each atom is a group named atom<i> with a "fill" sphere and a
// slightly larger back-faced "outline" sphere; bonds follow the same scheme
// as bond<i>-<j> with cylinders.
//
// # Centering
//
// The view center (center of positions, center of cell or a fixed point) is
// subtracted from all geometry. The configured translation then moves atoms
// and bonds only, leaving the cell and overlay in place.
//
// # Toggles
//
// [Scene.Apply] maps the display options onto node visibility, outline
// colors and shadow flags without rebuilding the tree.
package scene
