// Package preflight verifies that the external tools and paths the
// apply workflow depends on are usable before any media file is touched.
package preflight
