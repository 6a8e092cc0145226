// Package handlers provides HTTP request handlers for the slideshow
// control API.
//
// It includes handlers for:
//   - Playback state, navigation, and delay control
//   - Playback signal ingestion from rendering clients
//   - Playlist listing, entry removal, and rescan triggering
//   - Media file serving
//   - Server-sent event streaming to connected clients
//   - Authentication and sessions
//   - Health checks and build info
package handlers
