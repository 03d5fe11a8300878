package roster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"
)

// FailureReason classifies why a roster could not be loaded.
type FailureReason string

const (
	ReasonNetwork  FailureReason = "network"
	ReasonStatus   FailureReason = "status"
	ReasonNotFound FailureReason = "not_found"
	ReasonDecode   FailureReason = "decode"
	ReasonStorage  FailureReason = "storage"
)

// FetchError is a typed roster load failure.
type FetchError struct {
	Reason     FailureReason
	Source     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("roster %s failed (%s)", e.Source, e.Reason)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Source yields raw CSV roster text.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// HTTPSource fetches the roster over HTTP.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource builds an HTTP source with a bounded client timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (s *HTTPSource) String() string {
	return s.URL
}

// Open performs the GET and returns the body on a 2xx response.
func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &FetchError{Reason: ReasonNetwork, Source: s.URL, Err: err}
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Reason: ReasonNetwork, Source: s.URL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, &FetchError{Reason: ReasonStatus, Source: s.URL, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}

// FileSource reads the roster from the local filesystem.
type FileSource struct {
	Path string
}

func (s *FileSource) String() string {
	return s.Path
}

// Open opens the file.
func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Reason: ReasonNetwork, Source: s.Path, Err: err}
	}
	f, err := os.Open(s.Path)
	if err != nil {
		reason := ReasonStorage
		if errors.Is(err, fs.ErrNotExist) {
			reason = ReasonNotFound
		}
		return nil, &FetchError{Reason: reason, Source: s.Path, Err: err}
	}
	return f, nil
}
