package api

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAudioFileAcceptsAllowedFormats(t *testing.T) {
	for _, name := range []string{"a.wav", "b.mp3", "c.mpeg", "d.webm", "e.ogg", "f.m4a", "shout.WAV"} {
		if err := ValidateAudioFile(name, 1024); err != nil {
			t.Fatalf("expected %s to validate, got %v", name, err)
		}
	}
}

func TestValidateAudioFileRejectsUnknownFormat(t *testing.T) {
	err := ValidateAudioFile("clip.flac", 1024)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if !strings.Contains(validationErr.Reason, AllowedAudioFormats()) {
		t.Fatalf("expected the allowed formats in the message, got %q", validationErr.Reason)
	}
}

func TestValidateAudioFileSizeLimit(t *testing.T) {
	if err := ValidateAudioFile("big.wav", MaxAudioBytes); err != nil {
		t.Fatalf("exactly 25 MiB must pass, got %v", err)
	}
	err := ValidateAudioFile("big.wav", MaxAudioBytes+1)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError above the limit, got %T: %v", err, err)
	}
}
