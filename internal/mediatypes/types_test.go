package mediatypes

import (
	"testing"
)

func TestGetMediaKind(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want MediaKind
	}{
		{
			name: "MP3 audio",
			ext:  ".mp3",
			want: KindAudio,
		},
		{
			name: "FLAC audio",
			ext:  ".flac",
			want: KindAudio,
		},
		{
			name: "MP4 video",
			ext:  ".mp4",
			want: KindVideo,
		},
		{
			name: "MKV video",
			ext:  ".mkv",
			want: KindVideo,
		},
		{
			name: "GIF treated as video",
			ext:  ".gif",
			want: KindVideo,
		},
		{
			name: "JPEG image",
			ext:  ".jpg",
			want: KindImage,
		},
		{
			name: "WebP image",
			ext:  ".webp",
			want: KindImage,
		},
		{
			name: "Unknown extension",
			ext:  ".xyz",
			want: KindOther,
		},
		{
			name: "Empty extension",
			ext:  "",
			want: KindOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetMediaKind(tt.ext)
			if got != tt.want {
				t.Errorf("GetMediaKind(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}

func TestGetMimeType(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want string
	}{
		{
			name: "MP3",
			ext:  ".mp3",
			want: "audio/mpeg",
		},
		{
			name: "WAV",
			ext:  ".wav",
			want: "audio/wav",
		},
		{
			name: "MP4",
			ext:  ".mp4",
			want: "video/mp4",
		},
		{
			name: "WebM",
			ext:  ".webm",
			want: "video/webm",
		},
		{
			name: "JPEG",
			ext:  ".jpg",
			want: "image/jpeg",
		},
		{
			name: "Unknown falls back to octet-stream",
			ext:  ".xyz",
			want: "application/octet-stream",
		},
		{
			name: "Empty extension",
			ext:  "",
			want: "application/octet-stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetMimeType(tt.ext)
			if got != tt.want {
				t.Errorf("GetMimeType(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestIsMediaFile(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{".mp3", true},
		{".mp4", true},
		{".png", true},
		{".txt", false},
		{".exe", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := IsMediaFile(tt.ext); got != tt.want {
				t.Errorf("IsMediaFile(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}

func TestEveryExtensionHasMimeType(t *testing.T) {
	for _, m := range []map[string]bool{AudioExtensions, VideoExtensions, ImageExtensions} {
		for ext := range m {
			if _, ok := MimeTypes[ext]; !ok {
				t.Errorf("extension %q has no MIME type entry", ext)
			}
		}
	}
}
