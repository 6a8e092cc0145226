// Package mediakind provides shared type definitions for media entry
// classification across the slideshow viewer.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles. It contains primitive types,
// constants, and pure utility functions with no dependencies beyond the
// standard library.
//
// # Entry Kinds
//
// The package defines a Kind enum for categorizing playable entries:
//
//	mediakind.KindImage    // Static images (jpg, png, bmp, ...)
//	mediakind.KindAnimated // Animated images (gif, apng, animated webp)
//	mediakind.KindVideo    // Videos (mp4, mkv, mov, ...)
//	mediakind.KindOther    // Unrecognized or unsupported files
//
// Each kind carries a distinct advancement policy in the playback scheduler:
// static images advance after a configured delay, videos advance on an
// end-of-playback signal, and animated images advance after one full cycle.
//
// # Kind Detection
//
// Use KindForPath to classify a file:
//
//	kind := mediakind.KindForPath("photos/cat.gif") // KindAnimated
//
// # Sorting
//
// SortField and SortOrder provide the sort modes used when building the
// playlist order:
//
//	field := mediakind.SortByName
//	order := mediakind.SortAsc
package mediakind
