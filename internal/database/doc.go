// Package database persists the slideshow index in SQLite.
//
// Three concerns live here: the scanned entry index (replaced wholesale on
// each rescan so restarts do not re-walk the media tree before the first
// slide), permanent-failure marks for entries that exhausted their retry
// budget, and single-user authentication with hashed session tokens.
//
// The database runs in WAL mode so playback state reads never block behind
// a rescan writing the new index.
package database
