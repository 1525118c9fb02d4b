package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// LoadErrorKind classifies terminal load failures.
type LoadErrorKind int

const (
	// KindNetwork covers transport failures and unreadable local files.
	KindNetwork LoadErrorKind = iota
	// KindHTTPStatus is a non-2xx response; Status carries the code.
	KindHTTPStatus
	// KindParse is a malformed payload.
	KindParse
)

func (k LoadErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http status"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// LoadError is the single error type produced by the loader. Any variant is
// terminal for the session: no partial collection is exposed and no retry
// is attempted.
type LoadError struct {
	Kind   LoadErrorKind
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("loading archive: unexpected status %d", e.Status)
	default:
		return fmt.Sprintf("loading archive: %v", e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader retrieves the archive document exactly once per session, from a
// local path or an http(s) URL.
type Loader struct {
	source    string
	userAgent string
	client    *http.Client
}

// NewLoader creates a loader for the given source. A zero timeout means no
// timeout: a hung fetch leaves the caller waiting, which is the documented
// behavior for this viewer.
func NewLoader(source, userAgent string, timeout time.Duration) *Loader {
	return &Loader{
		source:    source,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// Load fetches and decodes the archive. The returned error, when non-nil,
// is always a *LoadError.
func (l *Loader) Load(ctx context.Context) (*Collection, error) {
	data, err := l.retrieve(ctx)
	if err != nil {
		return nil, err
	}

	var threads []*Thread
	if err := json.Unmarshal(data, &threads); err != nil {
		return nil, &LoadError{Kind: KindParse, Err: fmt.Errorf("decoding archive: %w", err)}
	}

	return &Collection{
		Threads:  threads,
		Keywords: DistinctKeywords(threads),
	}, nil
}

func (l *Loader) retrieve(ctx context.Context) ([]byte, error) {
	if isHTTPSource(l.source) {
		return l.fetch(ctx)
	}

	data, err := os.ReadFile(l.source)
	if err != nil {
		return nil, &LoadError{Kind: KindNetwork, Err: fmt.Errorf("reading archive: %w", err)}
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, &LoadError{Kind: KindNetwork, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &LoadError{Kind: KindNetwork, Err: fmt.Errorf("fetching archive: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &LoadError{Kind: KindHTTPStatus, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Kind: KindNetwork, Err: fmt.Errorf("reading response: %w", err)}
	}
	return data, nil
}

func isHTTPSource(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
