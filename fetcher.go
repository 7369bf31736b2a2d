package modcat

import "context"

// Fetcher retrieves the source document.
type Fetcher interface {
	// Fetch makes a single attempt to retrieve url and returns its body.
	// Failures are reported as *FetchError.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
