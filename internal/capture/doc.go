// Package capture records everything a notebook cell produces while still
// letting the output reach its normal destination.
//
// A [Streams] value is the explicit context object a host passes to a cell:
// its stdout, stderr and display function. [Streams.Intercept] swaps those for
// tee-ing versions that append into a [Buffer] and returns a restore function;
// [Streams.Capture] does the same around a callback and restores on return or
// panic.
//
// Every captured value is classified once into an [Item] (text, image, error
// or value) so later stages never inspect arbitrary types again.
package capture
