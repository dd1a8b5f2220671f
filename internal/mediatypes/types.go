package mediatypes

// MediaKind represents the broad class of a media file.
type MediaKind string

const (
	// KindAudio represents an audio file.
	KindAudio MediaKind = "audio"
	// KindVideo represents a video file.
	KindVideo MediaKind = "video"
	// KindImage represents an image file.
	KindImage MediaKind = "image"
	// KindOther represents an unknown or unsupported file type.
	KindOther MediaKind = "other"
)

// AudioExtensions maps file extensions to whether they are recognized audio formats.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".oga":  true,
	".flac": true,
	".aac":  true,
	".m4a":  true,
	".wma":  true,
	".opus": true,
}

// VideoExtensions maps file extensions to whether they are recognized video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
	".ts":   true,
	".gif":  true,
}

// ImageExtensions maps file extensions to whether they are recognized image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Audio
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".m4a":  "audio/mp4",
	".wma":  "audio/x-ms-wma",
	".opus": "audio/opus",

	// Videos
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",
	".gif":  "image/gif",

	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
}

// GetMediaKind returns the MediaKind for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".mp3").
// Returns KindOther if the extension is not recognized. GIF is classified as
// video because the engine treats it as a frame sequence.
func GetMediaKind(ext string) MediaKind {
	if AudioExtensions[ext] {
		return KindAudio
	}
	if VideoExtensions[ext] {
		return KindVideo
	}
	if ImageExtensions[ext] {
		return KindImage
	}
	return KindOther
}

// GetMimeType returns the MIME type for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".mp3").
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsMediaFile returns true if the extension represents a recognized media file.
func IsMediaFile(ext string) bool {
	return GetMediaKind(ext) != KindOther
}
