// Package fsspec maps URLs to read-only fs.FS implementations, and provides
// the generic operations built on top of them: globbing with "**", and
// opening every file a URL (or URL pattern) names.
//
// Filesystems are registered with an FSMux by URL scheme. A provider can
// implement PathFromURLer when the path a URL names can't be read from the
// URL's path, as is the case for gitlab:// URLs. See the autofs package for a
// mux with every filesystem in this module registered.
package fsspec
