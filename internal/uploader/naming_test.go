package uploader

import "testing"

func TestCaption(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
	}{
		{"01-city-lights.jpg", "city lights"},
		{"02_rainy_day.jpeg", "rainy day"},
		{"forest.png", "forest"},
		{"slussen-dusk.jpg", "slussen dusk"},
		{"42.jpg", ""},
		{"003  harbor.webp", "harbor"},
		{"no-extension", "no extension"},
	}

	for _, tt := range tests {
		if got := Caption(tt.fileName); got != tt.want {
			t.Errorf("Caption(%q) = %q, want %q", tt.fileName, got, tt.want)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		dirName string
		want    string
	}{
		{"street", "Street"},
		{"gamla-stan", "Gamla Stan"},
		{"north_coast", "North Coast"},
		{"iceland 2025", "Iceland 2025"},
		{"åland-islands", "Åland Islands"},
		{"öland", "Öland"},
	}

	for _, tt := range tests {
		if got := Title(tt.dirName); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.dirName, got, tt.want)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Gamla Stan", "gamla-stan"},
		{"North  Coast", "north-coast"},
		{"Iceland 2025", "iceland-2025"},
		{"  spaced  ", "spaced"},
	}

	for _, tt := range tests {
		if got := Slug(tt.title); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
