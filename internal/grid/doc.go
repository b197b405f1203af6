// Package grid provides the data model of the dot-matrix display.
//
// The package defines the two-state cell grid and the content held behind
// the display window:
//
//   - [Cell]: one two-state dot ([Off] is the dark mark color, [On] the light
//     color that matches the page background)
//   - [Matrix]: a rectangular block of cells stored row-major
//   - [Frame]: an immutable display-window snapshot used for rendering and export
//   - [State]: the live display matrix plus optional wider extended content
//   - [Rasterizer]: the capability that turns text into a binary matrix
//
// # Example
//
//	st := grid.NewState(15, 20)
//	_ = st.DrawContent(raster.NewFont(), "HELLO", grid.SizeMedium)
//	ext, ok := st.Extended()
//
// # Thread Safety
//
// State is NOT thread-safe. It is owned by a single cooperative loop; export
// works from deep copies taken with [Matrix.Clone].
package grid
