// Package palette holds the command palette's commands. Each command is a
// single store mutation; executing one also toggles the palette panel.
package palette
