// Package scheduler decides when the slideshow advances. It is the sole
// authority over automatic advancement: static images run on a recurring
// elapsed-time check against the configured delay, videos wait for an
// explicit playback-ended signal, and animated images wait one decoded
// cycle (clamped, with a fallback when the duration is unknown).
//
// At most one timer or tick loop (the "watch") is armed at a time, and
// every fire revalidates that the entry it was armed for is still the
// current one. Transient load failures are retried in place through a
// retry.Policy; exhausted entries are skipped and marked so automatic
// advancement never revisits them, though manual navigation gives them a
// fresh chance.
package scheduler
