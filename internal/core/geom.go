// Package core holds the character screen shared by the presentation layer
// and the terminal platform. It does not import Bubble Tea, so frames can be
// rasterized and inspected in plain tests.
package core

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
