// Package playlist provides the ordered, concurrency-safe collection of
// media entries behind the slideshow, together with its cursor.
//
// A Playlist owns its entries: the sequence is replaced wholesale on folder
// reload and every mutation is atomic, so readers never observe a
// half-applied state. The cursor is always either -1 (empty or unset) or a
// valid index; it is re-clamped after every mutation and never dangles.
//
// Selection survives reordering by identity, not index: sorting follows the
// selected entry to its new position, and removing an entry before the
// cursor shifts the cursor down so the same entry stays selected.
//
// All operations are guarded by a single mutex. They are short and
// non-blocking, so coarse locking is sufficient and every public operation
// is linearizable.
package playlist
