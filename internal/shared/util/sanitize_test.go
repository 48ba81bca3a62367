package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "resume.pdf", "resume.pdf", false},
		{"slashes replaced", "a/b\\c.pdf", "a_b_c.pdf", false},
		{"traversal rejected", "../etc/passwd", "", true},
		{"empty rejected", "   ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFileName(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"resume.pdf", "pdf"},
		{"RESUME.DOCX", "docx"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{"trailing.", ""},
	}
	for _, tt := range tests {
		if got := FileExtension(tt.in); got != tt.want {
			t.Errorf("FileExtension(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHashUserKeyIsStableAndSafe(t *testing.T) {
	a := HashUserKey("user-1")
	b := HashUserKey("user-1")
	if a != b {
		t.Fatal("hash not stable")
	}
	if a == HashUserKey("user-2") {
		t.Fatal("different users collide")
	}
	if len(a) != 64 {
		t.Fatalf("hash length = %d", len(a))
	}
}
