// Package output writes what is left of a finished run: the body of its last
// response, and a short console summary of its steps.
//
// Bodies go to an Output, either standard output through a term.Stdout or a
// named file. Rendering always completes before anything is written.
package output
