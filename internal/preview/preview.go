package preview

import "context"

// Metadata is what the fetcher could learn about a destination page.
type Metadata struct {
	Title       string
	Description string
}

// Fetcher loads destination page metadata for the inspect view. It is a
// read-only decoration over resolved links and never touches the store or
// the action log.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Metadata, error)
}
