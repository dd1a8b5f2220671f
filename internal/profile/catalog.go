package profile

// Builtin returns the registry of built-in conversion profiles. Argument
// values are plain engine tokens; changing a profile never requires touching
// the pipeline.
func Builtin() *Registry {
	return NewRegistry(
		// Audio
		newProfile("mp3", nil,
			Arg{Key: "-vn"},
			Arg{Key: "-ar", Value: "44100"},
			Arg{Key: "-ac", Value: "2"},
			Arg{Key: "-b:a", Value: "192k"},
			Arg{Key: "-f", Value: "mp3"},
		),
		newProfile("wav", nil,
			Arg{Key: "-vn"},
			Arg{Key: "-ar", Value: "44100"},
			Arg{Key: "-ac", Value: "2"},
			Arg{Key: "-f", Value: "wav"},
		),
		newProfile("ogg", []string{"oga"},
			Arg{Key: "-vn"},
			Arg{Key: "-c:a", Value: "libvorbis"},
			Arg{Key: "-q:a", Value: "5"},
			Arg{Key: "-f", Value: "ogg"},
		),
		newProfile("flac", nil,
			Arg{Key: "-vn"},
			Arg{Key: "-c:a", Value: "flac"},
			Arg{Key: "-f", Value: "flac"},
		),
		newProfile("aac", nil,
			Arg{Key: "-vn"},
			Arg{Key: "-c:a", Value: "aac"},
			Arg{Key: "-b:a", Value: "192k"},
			Arg{Key: "-f", Value: "adts"},
		),

		// Video
		newProfile("mp4", []string{"m4v"},
			Arg{Key: "-c:v", Value: "libx264"},
			Arg{Key: "-preset", Value: "veryfast"},
			Arg{Key: "-crf", Value: "23"},
			Arg{Key: "-c:a", Value: "aac"},
			Arg{Key: "-b:a", Value: "128k"},
			Arg{Key: "-movflags", Value: "+faststart"},
			Arg{Key: "-f", Value: "mp4"},
		),
		newProfile("webm", nil,
			Arg{Key: "-c:v", Value: "libvpx-vp9"},
			Arg{Key: "-crf", Value: "32"},
			Arg{Key: "-b:v", Value: "0"},
			Arg{Key: "-c:a", Value: "libopus"},
			Arg{Key: "-f", Value: "webm"},
		),
		newProfile("mkv", nil,
			Arg{Key: "-c:v", Value: "libx264"},
			Arg{Key: "-preset", Value: "veryfast"},
			Arg{Key: "-crf", Value: "23"},
			Arg{Key: "-c:a", Value: "aac"},
			Arg{Key: "-f", Value: "matroska"},
		),
		newProfile("avi", nil,
			Arg{Key: "-c:v", Value: "mpeg4"},
			Arg{Key: "-q:v", Value: "5"},
			Arg{Key: "-c:a", Value: "libmp3lame"},
			Arg{Key: "-f", Value: "avi"},
		),
		newProfile("mov", nil,
			Arg{Key: "-c:v", Value: "libx264"},
			Arg{Key: "-preset", Value: "veryfast"},
			Arg{Key: "-crf", Value: "23"},
			Arg{Key: "-c:a", Value: "aac"},
			Arg{Key: "-f", Value: "mov"},
		),
		newProfile("gif", nil,
			Arg{Key: "-vf", Value: "fps=12,scale=480:-1:flags=lanczos"},
			Arg{Key: "-loop", Value: "0"},
			Arg{Key: "-f", Value: "gif"},
		),

		// Image (single frame out)
		newProfile("jpg", []string{"jpeg"},
			Arg{Key: "-frames:v", Value: "1"},
			Arg{Key: "-q:v", Value: "2"},
			Arg{Key: "-f", Value: "image2"},
		),
		newProfile("png", nil,
			Arg{Key: "-frames:v", Value: "1"},
			Arg{Key: "-f", Value: "image2"},
		),
		newProfile("webp", nil,
			Arg{Key: "-frames:v", Value: "1"},
			Arg{Key: "-c:v", Value: "libwebp"},
			Arg{Key: "-quality", Value: "80"},
			Arg{Key: "-f", Value: "image2"},
		),
	)
}
