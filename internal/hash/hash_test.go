package hash

import "testing"

func TestSHA256Hasher_HashBytes(t *testing.T) {
	hasher := NewSHA256Hasher()

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"nil", nil, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"empty", []byte{}, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"hello world", []byte("hello world"), "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasher.HashBytes(tt.data); got != tt.want {
				t.Errorf("HashBytes = %s, want %s", got, tt.want)
			}
		})
	}

	t.Run("same content produces same hash", func(t *testing.T) {
		a := hasher.HashBytes([]byte("N4IgLgngDgpiBcIBKBXAhgOwCYEsBOCIAvkA"))
		b := hasher.HashBytes([]byte("N4IgLgngDgpiBcIBKBXAhgOwCYEsBOCIAvkA"))
		if a != b {
			t.Errorf("identical content produced different hashes: %s vs %s", a, b)
		}
	})

	t.Run("different content has different hashes", func(t *testing.T) {
		if hasher.HashBytes([]byte("content A")) == hasher.HashBytes([]byte("content B")) {
			t.Error("different content produced same hash")
		}
	})
}

func TestFakeHasher(t *testing.T) {
	hasher := NewFakeHasher()

	t.Run("returns default hash for unknown content", func(t *testing.T) {
		if got := hasher.HashBytes([]byte("x")); got != "fakehash" {
			t.Errorf("HashBytes default = %s, want fakehash", got)
		}
	})

	t.Run("returns configured hash for known content", func(t *testing.T) {
		hasher.SetContentHash([]byte("x"), "hash-x")
		hasher.SetContentHash([]byte("y"), "hash-y")
		if got := hasher.HashBytes([]byte("x")); got != "hash-x" {
			t.Errorf("HashBytes(x) = %s, want hash-x", got)
		}
		if got := hasher.HashBytes([]byte("y")); got != "hash-y" {
			t.Errorf("HashBytes(y) = %s, want hash-y", got)
		}
	})
}
