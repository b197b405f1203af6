// Package anim holds the time-driven effect state of the display: the color
// fade, the column reveal and the scheduler that owns one cancellable periodic
// task per animation kind.
//
// Nothing in this package starts goroutines. A single cooperative loop (the
// terminal UI, or a test) delivers ticks; each tick carries the [Token] it was
// issued for and is rejected once that token has been cancelled or replaced.
package anim
