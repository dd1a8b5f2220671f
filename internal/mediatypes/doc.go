// Package mediatypes provides shared type definitions and utilities for media
// file handling across the media converter service.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles. It contains primitive types,
// constants, and pure utility functions with no external dependencies beyond
// the standard library.
//
// # Media Kinds
//
// The package defines a MediaKind enum for categorizing media files:
//
//	mediatypes.KindAudio // Audio formats (mp3, wav, flac, etc.)
//	mediatypes.KindVideo // Video formats (mp4, mkv, webm, etc.)
//	mediatypes.KindImage // Image formats (jpg, png, webp, etc.)
//	mediatypes.KindOther // Unrecognized or unsupported files
//
// # Extension Detection
//
// Use GetMediaKind to determine the kind of a file based on its extension:
//
//	ext := strings.ToLower(filepath.Ext(filename))
//	kind := mediatypes.GetMediaKind(ext)
//
// # MIME Types
//
// Use GetMimeType to get the appropriate MIME type for HTTP responses:
//
//	ext := strings.ToLower(filepath.Ext(filename))
//	mimeType := mediatypes.GetMimeType(ext) // e.g., "audio/mpeg"
//
// The extension maps (AudioExtensions, VideoExtensions, ImageExtensions) can
// be used directly for validation or iteration.
package mediatypes
