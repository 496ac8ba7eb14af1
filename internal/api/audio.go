package api

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxAudioBytes is the transcription upload ceiling. Checked locally so
// oversized files never leave the machine; the backend enforces it too.
const MaxAudioBytes = 25 << 20

var audioContentTypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".mpeg": "audio/mpeg",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".m4a":  "audio/m4a",
}

// AllowedAudioFormats names the accepted upload formats for error
// messages.
func AllowedAudioFormats() string { return "WAV, MP3, MPEG, WebM, OGG, M4A" }

// ValidateAudioFile checks the transcription preconditions for a local
// file: recognized audio extension and size within MaxAudioBytes.
func ValidateAudioFile(path string, size int64) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := audioContentTypes[ext]; !ok {
		return &ValidationError{
			Reason: fmt.Sprintf("unsupported audio format %q: expected one of %s", ext, AllowedAudioFormats()),
		}
	}
	if size > MaxAudioBytes {
		return &ValidationError{
			Reason: fmt.Sprintf("file too large (%d bytes): maximum size is 25MB", size),
		}
	}
	return nil
}
