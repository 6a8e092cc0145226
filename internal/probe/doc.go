// Package probe validates media files server-side before they are shown.
//
// A probe decodes as much as the media kind requires: static images go
// through libvips when available (falling back to the pure-Go decoders),
// animated GIFs are fully decoded so the per-frame delays can be summed
// into a cycle duration, and videos get a readability check since their
// real decoding happens in the rendering client.
//
// The Loader runs probes from a worker pool in response to the scheduler's
// reload requests and feeds the outcomes back as playback signals.
package probe
