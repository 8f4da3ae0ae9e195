// Package imagedata turns image files into embeddable data URLs.
//
// Decoding runs as an explicit task: callers start it, keep doing other work, and await the
// payload before committing the operation that needs it.
package imagedata

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// ErrNotImage is returned when the file content does not sniff as an image.
var ErrNotImage = errors.New("not an image")

// Task is one in-flight decode. It completes exactly once.
type Task struct {
	path string
	done chan struct{}
	url  string
	err  error
}

// Start begins decoding path in the background.
func Start(ctx context.Context, path string) *Task {
	t := &Task{path: path, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.url, t.err = encodeFile(ctx, path)
	}()
	return t
}

func (t *Task) Path() string { return t.path }

// Done is closed when the decode has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the decode finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) (string, error) {
	select {
	case <-t.done:
		return t.url, t.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Decode reads path and returns it as a data URL.
func Decode(ctx context.Context, path string) (string, error) {
	return Start(ctx, path).Wait(ctx)
}

func encodeFile(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("image path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Encode(b)
}

// Encode returns b as a data URL, sniffing the MIME type from its content.
func Encode(b []byte) (string, error) {
	if len(b) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrNotImage)
	}
	mime := http.DetectContentType(b)
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

// MIMEType returns the media type of a data URL, or "" if url is not one.
func MIMEType(url string) string {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return ""
	}
	mime, _, ok := strings.Cut(rest, ";")
	if !ok {
		return ""
	}
	return mime
}

// Size returns the decoded payload size of a base64 data URL, or 0.
func Size(url string) int {
	_, payload, ok := strings.Cut(url, ";base64,")
	if !ok {
		return 0
	}
	return base64.StdEncoding.DecodedLen(len(payload)) - strings.Count(payload[max(0, len(payload)-2):], "=")
}
