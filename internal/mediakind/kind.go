package mediakind

import (
	"path/filepath"
	"strings"
)

// Kind represents the playback classification of a media entry.
type Kind string

const (
	// KindImage represents a static image.
	KindImage Kind = "image"
	// KindAnimated represents an animated image (gif, apng, animated webp).
	KindAnimated Kind = "animated"
	// KindVideo represents a video file.
	KindVideo Kind = "video"
	// KindOther represents an unknown or unsupported file type.
	KindOther Kind = "other"
)

// SortField specifies which field to sort by.
type SortField string

// SortOrder specifies the direction of sorting.
type SortOrder string

const (
	// SortByName sorts entries by filename.
	SortByName SortField = "name"
	// SortByDate sorts entries by modification time.
	SortByDate SortField = "date"

	// SortAsc sorts in ascending order.
	SortAsc SortOrder = "asc"
	// SortDesc sorts in descending order.
	SortDesc SortOrder = "desc"
)

// ImageExtensions maps file extensions to whether they are supported static
// image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".heic": true,
	".heif": true,
}

// AnimatedExtensions maps file extensions to whether they are treated as
// animated image formats. WebP files are classified as animated up front;
// the probe downgrades single-frame files to KindImage after decoding.
var AnimatedExtensions = map[string]bool{
	".gif":  true,
	".apng": true,
	".webp": true,
}

// VideoExtensions maps file extensions to whether they are supported video
// formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
	".ts":   true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".apng": "image/apng",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",

	// Videos
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",
}

// KindForExt returns the Kind for a given file extension.
// The extension should be lowercase and include the leading dot (e.g. ".jpg").
// Returns KindOther if the extension is not recognized.
func KindForExt(ext string) Kind {
	if AnimatedExtensions[ext] {
		return KindAnimated
	}
	if ImageExtensions[ext] {
		return KindImage
	}
	if VideoExtensions[ext] {
		return KindVideo
	}
	return KindOther
}

// KindForPath classifies a file path by its extension.
func KindForPath(path string) Kind {
	return KindForExt(strings.ToLower(filepath.Ext(path)))
}

// GetMimeType returns the MIME type for a given file extension.
// The extension should be lowercase and include the leading dot.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsMediaFile returns true if the extension represents a supported media file.
func IsMediaFile(ext string) bool {
	return KindForExt(ext) != KindOther
}

// IsMotion returns true for kinds that are excluded when the show is
// configured for static images only.
func (k Kind) IsMotion() bool {
	return k == KindAnimated || k == KindVideo
}
