// Package output renders review outcomes in text, JSON, and markdown
// formats, selected by name and written to stdout or a file.
package output
