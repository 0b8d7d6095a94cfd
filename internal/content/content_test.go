package content

import (
	"strings"
	"testing"
)

func TestDigest_Stability(t *testing.T) {
	a := DigestText("hello clipboard")
	b := DigestText("hello clipboard")
	if a != b {
		t.Errorf("same bytes produced different digests: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}

	c := DigestText("hello clipboarD")
	if a == c {
		t.Error("single differing byte produced an identical digest")
	}
}

func TestDigest_BytesAndTextAgree(t *testing.T) {
	if Digest([]byte("xyz")) != DigestText("xyz") {
		t.Error("Digest and DigestText disagree on identical bytes")
	}
}

func TestPreview_Short(t *testing.T) {
	text := "short text"
	if got := Preview(text); got != text {
		t.Errorf("Preview(%q) = %q, want unchanged", text, got)
	}
}

func TestPreview_TruncatesOnRuneBoundary(t *testing.T) {
	// 100 multi-byte runes; byte-indexed truncation would split codepoints.
	text := strings.Repeat("日", 100)
	got := Preview(text)

	want := strings.Repeat("日", 80) + "..."
	if got != want {
		t.Errorf("Preview = %q, want first 80 runes plus ellipsis", got)
	}
}

func TestPreview_ExactBudget(t *testing.T) {
	text := strings.Repeat("a", 80)
	if got := Preview(text); got != text {
		t.Errorf("Preview of exactly 80 runes should be unchanged, got %q", got)
	}
}

func TestImageFilename(t *testing.T) {
	got := ImageFilename(1700000000000000000, "abcdef1234567890")
	want := "1700000000000000000_abcdef123456.png"
	if got != want {
		t.Errorf("ImageFilename = %q, want %q", got, want)
	}
}

func TestImageFilename_ShortDigest(t *testing.T) {
	got := ImageFilename(1, "abc")
	if got != "1_abc.png" {
		t.Errorf("ImageFilename = %q, want short digest kept whole", got)
	}
}

func TestEncodeRGBA_Roundtrip(t *testing.T) {
	raw := []byte{
		255, 0, 0, 255, // red
		0, 255, 0, 255, // green
		0, 0, 255, 255, // blue
		255, 255, 255, 128, // translucent white
	}

	encoded, err := EncodeRGBA(raw, 2, 2)
	if err != nil {
		t.Fatalf("EncodeRGBA failed: %v", err)
	}

	decoded, w, h, err := DecodeRGBA(encoded)
	if err != nil {
		t.Fatalf("DecodeRGBA failed: %v", err)
	}
	if w != 2 || h != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2", w, h)
	}
	if len(decoded) != len(raw) {
		t.Fatalf("decoded length = %d, want %d", len(decoded), len(raw))
	}
	for i := range raw {
		if decoded[i] != raw[i] {
			t.Fatalf("byte %d = %d, want %d (round trip must be exact)", i, decoded[i], raw[i])
		}
	}
}

func TestEncodeRGBA_RejectsLengthMismatch(t *testing.T) {
	if _, err := EncodeRGBA([]byte{0, 0, 0}, 1, 1); err == nil {
		t.Error("EncodeRGBA should reject a buffer shorter than w*h*4")
	}
	if _, err := EncodeRGBA(make([]byte, 16), 1, 1); err == nil {
		t.Error("EncodeRGBA should reject a buffer longer than w*h*4")
	}
}

func TestEncodeRGBA_RejectsBadDimensions(t *testing.T) {
	if _, err := EncodeRGBA(nil, 0, 0); err == nil {
		t.Error("EncodeRGBA should reject zero dimensions")
	}
	if _, err := EncodeRGBA(nil, -1, 5); err == nil {
		t.Error("EncodeRGBA should reject negative dimensions")
	}
}
