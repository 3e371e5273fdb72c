// Package paginate drives page-numbered listings to completion.
package paginate

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DefaultMaxPages bounds All when no MaxPages is set
const DefaultMaxPages = 1000

var (
	// ErrTruncated is matched by errors returned when a page fetch failed mid-listing
	ErrTruncated = errors.New("listing truncated")
	// ErrTooManyPages is returned when the page bound was reached before an empty page
	ErrTooManyPages = errors.New("page limit reached")
)

// FetchFunc retrieves one page. Pages are numbered from 1.
type FetchFunc[T any] func(ctx context.Context, page int) ([]T, error)

// PageError describes the page whose fetch cut a listing short
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("fetching page %d: %v", e.Page, e.Err)
}

// Unwrap exposes the fetch error
func (e *PageError) Unwrap() error {
	return e.Err
}

// Is makes every PageError match ErrTruncated
func (e *PageError) Is(target error) bool {
	return target == ErrTruncated
}

// Options controls a listing
type Options struct {
	// All loads every page starting at 1 instead of just Page
	All bool
	// Page is the single page to load when All is false; 0 means 1
	Page int
	// MaxPages bounds an All listing; 0 means DefaultMaxPages
	MaxPages int
	// Tolerant swallows a failed page: the results so far are returned with a nil error
	Tolerant bool
	// Logger receives the tolerated failures; nil means the standard logger
	Logger log.FieldLogger
}

// List fetches a single page or, with opts.All, every page
func List[T any](ctx context.Context, opts Options, fetch FetchFunc[T]) ([]T, error) {
	if !opts.All {
		page := opts.Page
		if page < 1 {
			page = 1
		}
		return fetch(ctx, page)
	}
	return All(ctx, opts, fetch)
}

// All calls fetch for pages 1, 2, ... until a page comes back empty.
// When a fetch fails the results accumulated so far are returned along with a *PageError,
// or with a nil error if opts.Tolerant is set.
func All[T any](ctx context.Context, opts Options, fetch FetchFunc[T]) ([]T, error) {
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	var results []T

	for page := 1; ; page++ {
		if page > maxPages {
			return results, errors.Wrapf(ErrTooManyPages, "stopped after %d pages", maxPages)
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		chunk, err := fetch(ctx, page)
		if err != nil {
			if opts.Tolerant {
				logger.WithError(err).WithFields(log.Fields{
					"page":    page,
					"fetched": len(results),
				}).Warn("listing cut short")
				return results, nil
			}
			return results, &PageError{Page: page, Err: err}
		}

		if len(chunk) == 0 {
			return results, nil
		}

		results = append(results, chunk...)
	}
}
