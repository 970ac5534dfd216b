package parsers

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/haukened/rr-bloom/internal/bloom/common/log"
	"github.com/haukened/rr-bloom/internal/bloom/domain"
)

func names(keys []domain.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.Name
	}
	return out
}

func TestParseKeyList_Basics(t *testing.T) {
	input := "\uFEFF# comment at top\n" +
		"Alpha   \n" +
		"alpha#inline comment\n" +
		"\n" +
		"\tbeta\n" +
		"   # indented comment\n" +
		"Alpha   # duplicate\n" +
		"gamma delta\n"

	now := time.Unix(1723550000, 0)
	got, err := ParseKeyList(bytes.NewBufferString(input), "test-source", log.NewNoopLogger(), now, Options{})
	if err != nil {
		t.Fatalf("ParseKeyList returned error: %v", err)
	}

	want := []string{"Alpha", "alpha", "beta", "gamma delta"}
	if strings.Join(names(got), "|") != strings.Join(want, "|") {
		t.Fatalf("got %q, want %q", names(got), want)
	}
	for i, k := range got {
		if k.Source != "test-source" {
			t.Fatalf("key[%d].Source = %q", i, k.Source)
		}
		if !k.AddedAt.Equal(now) {
			t.Fatalf("key[%d].AddedAt = %v, want %v", i, k.AddedAt, now)
		}
	}
}

func TestParseKeyList_FoldCase(t *testing.T) {
	input := "Alpha\nALPHA\nalpha\nBeta\n"
	got, err := ParseKeyList(strings.NewReader(input), "s", log.NewNoopLogger(), time.Now(), Options{FoldCase: true})
	if err != nil {
		t.Fatalf("ParseKeyList returned error: %v", err)
	}
	if strings.Join(names(got), "|") != "alpha|beta" {
		t.Fatalf("got %q", names(got))
	}
}

func TestParseKeyList_KeepHash(t *testing.T) {
	input := "#hashtag\nissue#42\n"
	got, err := ParseKeyList(strings.NewReader(input), "s", log.NewNoopLogger(), time.Now(), Options{KeepHash: true})
	if err != nil {
		t.Fatalf("ParseKeyList returned error: %v", err)
	}
	if strings.Join(names(got), "|") != "#hashtag|issue#42" {
		t.Fatalf("got %q", names(got))
	}
}

func TestParseKeyList_EmptyAndCommentsOnly(t *testing.T) {
	input := "\n# only comments\n   \n#another\n"
	got, err := ParseKeyList(strings.NewReader(input), "s", log.NewNoopLogger(), time.Now(), Options{})
	if err != nil {
		t.Fatalf("ParseKeyList returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no keys, got %d", len(got))
	}
}

func TestParseKeyList_SkipsOversizedKeys(t *testing.T) {
	input := strings.Repeat("x", domain.MaxKeyLength+1) + "\nok\n"
	got, err := ParseKeyList(strings.NewReader(input), "s", log.NewNoopLogger(), time.Now(), Options{})
	if err != nil {
		t.Fatalf("ParseKeyList returned error: %v", err)
	}
	if strings.Join(names(got), "|") != "ok" {
		t.Fatalf("got %q", names(got))
	}
}

func TestParseKeyList_EmptySourceSkipsAll(t *testing.T) {
	got, err := ParseKeyList(strings.NewReader("a\nb\n"), "", log.NewNoopLogger(), time.Now(), Options{})
	if err != nil {
		t.Fatalf("ParseKeyList returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected keys without a source to be rejected, got %d", len(got))
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestParseKeyList_ReaderError(t *testing.T) {
	_, err := ParseKeyList(errReader{}, "s", log.NewNoopLogger(), time.Now(), Options{})
	if err == nil || err.Error() != "read failed" {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestParseKeyList_LineTooLong(t *testing.T) {
	input := strings.Repeat("y", maxLineBytes+1)
	_, err := ParseKeyList(strings.NewReader(input), "s", log.NewNoopLogger(), time.Now(), Options{})
	if err == nil {
		t.Fatalf("expected error for overlong line")
	}
}
