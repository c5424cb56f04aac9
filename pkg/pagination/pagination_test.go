package pagination

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{
		0:            DefaultLimit,
		-3:           DefaultLimit,
		10:           10,
		MaxLimit + 1: MaxLimit,
	}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Errorf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 123, time.FixedZone("x", 3600)), ID: uuid.New()}
	token := EncodeCursor(want)
	if strings.Contains(token, "=") {
		t.Fatalf("expected unpadded token, got %q", token)
	}

	got, err := ParseCursor(token)
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if !want.CreatedAt.Equal(got.CreatedAt) || want.ID != got.ID {
		t.Fatalf("round trip mismatch: want %+v, got %+v", want, got)
	}
}

func TestParseCursorEmptyAndInvalid(t *testing.T) {
	got, err := ParseCursor("  ")
	if err != nil || got != nil {
		t.Fatalf("expected nil cursor for blank token, got %+v, %v", got, err)
	}

	for _, token := range []string{"%%%", "bm8tc2VwYXJhdG9y", "eHx5"} {
		if _, err := ParseCursor(token); !errors.Is(err, ErrInvalidCursor) {
			t.Errorf("ParseCursor(%q) error = %v, want ErrInvalidCursor", token, err)
		}
	}
}
