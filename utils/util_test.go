package utils

import (
	"strings"
	"testing"
)

func TestCompressedStringRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat(`{"date":"2020-03-16","close":102.5}`, 200))

	compressed := ToCompressedString(payload)
	if len(compressed) >= len(payload) {
		t.Errorf("compressed length %d not smaller than payload %d", len(compressed), len(payload))
	}

	restored, err := FromCompressedString(compressed)
	if err != nil {
		t.Fatalf("FromCompressedString: %v", err)
	}
	if string(restored) != string(payload) {
		t.Error("restored payload does not match original")
	}
}

func TestFromCompressedStringRejectsGarbage(t *testing.T) {
	if _, err := FromCompressedString("not base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := FromCompressedString("aGVsbG8="); err == nil {
		t.Error("expected error for non-gzip payload")
	}
}
