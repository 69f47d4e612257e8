package models

import "context"

// Searcher defines the contract for the external post search service.
// Implementations return posts ordered by the provider's ranking, at most
// limit of them.
type Searcher interface {
	Search(ctx context.Context, keyword string, limit int) ([]Post, error)
}
