// Package highlight turns source code into highlighted HTML.
// It uses the Chroma library to do this work.
//
// This is the work performed by a highlight worker.
// Callers provide the code and an ordered list of language hints,
// and get back markup and the name of the language that was used.
package highlight
