// Package explorer implements open-or-focus for files picked in the explorer.
// The workspace store only guarantees unique ids; deduplication by title
// happens here, before a session is opened.
package explorer
