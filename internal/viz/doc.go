// Package viz holds the terminal drawing primitives shared by the explorer
// and the live renderer: a Braille [Canvas] that plots in region
// coordinates, lipgloss styles and a small set of colour themes.
package viz
