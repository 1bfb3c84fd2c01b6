// Package runner holds the result model of a test run and a sequential engine
// that produces it.
//
// A RunResult is an ordered list of steps; each step holds the calls it made,
// one per redirect hop. Failures are reported as *Error values, which carry the
// script location of the step when one exists.
package runner
