package fsutil

import "testing"

func TestIsManagedFile(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"section marker", "some text\n<!-- quill:skill docgen/summarize -->\n", true},
		{"closing marker", "<!-- /quill:skill docgen/summarize -->\n", false},
		{"no marker", "regular markdown content", false},
		{"empty", "", false},
		{"partial match", "<!-- quil", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsManagedFile([]byte(tt.data)); got != tt.want {
				t.Errorf("IsManagedFile = %v, want %v", got, tt.want)
			}
		})
	}
}
