// Package clock provides a tiny time abstraction.
//
// Code that reasons about expiry windows or cool-downs reads time through
// Clocker. Tests drive a Frozen clock to step across those boundaries without
// sleeping.
package clock
