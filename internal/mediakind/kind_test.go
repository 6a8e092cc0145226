package mediakind

import "testing"

func TestKindForExt(t *testing.T) {
	tests := []struct {
		ext      string
		expected Kind
	}{
		{".jpg", KindImage},
		{".jpeg", KindImage},
		{".png", KindImage},
		{".bmp", KindImage},
		{".gif", KindAnimated},
		{".apng", KindAnimated},
		{".webp", KindAnimated},
		{".mp4", KindVideo},
		{".mkv", KindVideo},
		{".webm", KindVideo},
		{".txt", KindOther},
		{".wpl", KindOther},
		{"", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := KindForExt(tt.ext); got != tt.expected {
				t.Errorf("KindForExt(%q) = %s, want %s", tt.ext, got, tt.expected)
			}
		})
	}
}

func TestKindForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Kind
	}{
		{"photos/cat.JPG", KindImage},
		{"clips/loop.GIF", KindAnimated},
		{"movies/trip.mp4", KindVideo},
		{"notes/readme.md", KindOther},
		{"noext", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := KindForPath(tt.path); got != tt.expected {
				t.Errorf("KindForPath(%q) = %s, want %s", tt.path, got, tt.expected)
			}
		})
	}
}

func TestGetMimeType(t *testing.T) {
	if got := GetMimeType(".jpg"); got != "image/jpeg" {
		t.Errorf("GetMimeType(.jpg) = %s, want image/jpeg", got)
	}
	if got := GetMimeType(".xyz"); got != "application/octet-stream" {
		t.Errorf("GetMimeType(.xyz) = %s, want application/octet-stream", got)
	}
}

func TestIsMotion(t *testing.T) {
	if KindImage.IsMotion() {
		t.Error("KindImage should not be motion")
	}
	if !KindAnimated.IsMotion() {
		t.Error("KindAnimated should be motion")
	}
	if !KindVideo.IsMotion() {
		t.Error("KindVideo should be motion")
	}
}

func TestIsMediaFile(t *testing.T) {
	if !IsMediaFile(".png") {
		t.Error("expected .png to be a media file")
	}
	if IsMediaFile(".doc") {
		t.Error("expected .doc not to be a media file")
	}
}
