// Package source loads timeline exports from local files or http(s) URLs,
// decodes them and normalizes them into sequences.
//
// A source that cannot be read, cannot be decoded, or yields no events is
// reported as a Diagnostic and left out; it never aborts the other sources.
package source
