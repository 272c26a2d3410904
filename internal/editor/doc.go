// Package editor holds the editor-side view state: windows that map a line
// cache onto a screen region, the layout that places them, and the command
// line.
package editor
