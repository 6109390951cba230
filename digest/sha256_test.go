package digest

import (
	"encoding/hex"
	"testing"
)

func TestSum256Vectors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}
	for _, tc := range cases {
		got := Sum256([]byte(tc.in))
		want, err := hex.DecodeString(tc.want)
		if err != nil {
			t.Fatalf("bad test vector: %v", err)
		}
		if hex.EncodeToString(got[:]) != hex.EncodeToString(want) {
			t.Fatalf("SHA-256(%q) = %x, want %x", tc.in, got, want)
		}
	}
}

func TestHasherIncrementalMatchesOneShot(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	want := Sum256(data)

	h := NewHasher()
	h.WriteBytes(data[:10])
	h.WriteBytes(data[10:])
	got := h.Sum()

	if got != want {
		t.Fatalf("incremental = %x, one-shot = %x", got, want)
	}
}

func TestWriteUint32LEMatchesManualFraming(t *testing.T) {
	h1 := NewHasher()
	h1.WriteUint32LE(0x01020304)

	h2 := NewHasher()
	h2.WriteBytes([]byte{0x04, 0x03, 0x02, 0x01})

	if h1.Sum() != h2.Sum() {
		t.Fatalf("little-endian framing mismatch")
	}
}
