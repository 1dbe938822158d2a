package filename

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases and keeps extension", "My Photo.JPG", "my_photo.jpg"},
		{"transliterates accents", "sommarkväll på ön.mp3", "sommarkvall_pa_on.mp3"},
		{"collapses separator runs", "a   b!!c.png", "a_b_c.png"},
		{"strips path components", "../../etc/passwd", "passwd"},
		{"keeps dots and dashes", "mix-2024.final.wav", "mix-2024.final.wav"},
		{"empty input falls back", "", "file"},
		{"only junk falls back", "###", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestExt(t *testing.T) {
	assert.Equal(t, ".jpg", Ext("Photo.JPG"))
	assert.Equal(t, "", Ext("noext"))
}
