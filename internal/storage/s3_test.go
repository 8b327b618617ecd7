package storage

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.txt", "a.txt/0190"},
		{"dir/a.txt", "dir%2Fa.txt/0190"},
		{"with space.pdf", "with%20space.pdf/0190"},
	}
	for _, tt := range tests {
		if got := objectKey(tt.filename, "0190"); got != tt.want {
			t.Errorf("objectKey(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestKeyPrefixDoesNotMatchLongerNames(t *testing.T) {
	if strings.HasPrefix(objectKey("a.txt.bak", "id"), keyPrefix("a.txt")) {
		t.Fatal("prefix for a.txt matches a.txt.bak")
	}
}

func TestIDFromKey(t *testing.T) {
	if got := idFromKey("dir%2Fa.txt/0190abcd"); got != "0190abcd" {
		t.Fatalf("idFromKey = %q", got)
	}
	if got := firstObjectKey([]types.Object{{Key: aws.String("a/1")}, {Key: aws.String("a/2")}}); got != "a/1" {
		t.Fatalf("firstObjectKey = %q", got)
	}
}

func TestSizedBody(t *testing.T) {
	t.Run("seeker keeps position", func(t *testing.T) {
		r := strings.NewReader("0123456789")
		_, _ = r.Seek(2, io.SeekStart)

		body, size, err := sizedBody(r)
		if err != nil {
			t.Fatalf("sizedBody: %v", err)
		}
		if size != 8 {
			t.Fatalf("size = %d, want 8", size)
		}
		b, _ := io.ReadAll(body)
		if string(b) != "23456789" {
			t.Fatalf("body = %q", b)
		}
	})

	t.Run("plain reader is buffered", func(t *testing.T) {
		body, size, err := sizedBody(iotest.OneByteReader(strings.NewReader("hello")))
		if err != nil {
			t.Fatalf("sizedBody: %v", err)
		}
		if size != 5 {
			t.Fatalf("size = %d, want 5", size)
		}
		b, _ := io.ReadAll(body)
		if string(b) != "hello" {
			t.Fatalf("body = %q", b)
		}
	})

	t.Run("read error", func(t *testing.T) {
		_, _, err := sizedBody(iotest.ErrReader(io.ErrClosedPipe))
		if err == nil {
			t.Fatal("expected error")
		}
	})
}
