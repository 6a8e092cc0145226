// Package scanner discovers playable media in the media directory.
//
// Scan walks the tree with a small pool of stat workers, classifies each
// file by extension, and returns playlist entries keyed by relative path.
// Hidden files and directories are skipped, and motion media (animated
// images and videos) is included only when configured.
//
// Watch uses fsnotify to monitor the tree for changes, coalescing event
// bursts behind a debounce window so a large file copy triggers one rescan
// rather than hundreds.
package scanner
