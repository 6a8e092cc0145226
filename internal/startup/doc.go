// Package startup handles configuration loading and structured startup and
// shutdown logging.
//
// Configuration comes from environment variables with sensible defaults;
// LoadConfig validates directories up front so failures happen at boot with
// a clear message instead of mid-playback. The Log* helpers keep the boot
// sequence readable in container logs.
package startup
