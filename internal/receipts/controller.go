// Package receipts drives the paginated, filterable listing of receipt
// records. The controller tracks page and category filter as one cursor and
// guarantees that only the result of the most recent cursor change is ever
// applied; responses to superseded cursors are dropped.
package receipts

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/receiptscan/internal/gqlclient"
	"github.com/dmitrijs2005/receiptscan/internal/logging"
	"github.com/dmitrijs2005/receiptscan/internal/models"
)

// PageSize is the fixed number of records per page.
const PageSize = 10

// ErrPageOutOfRange is returned for a page outside [1, totalPages]. Callers
// are expected to clamp; the controller does not correct silently.
var ErrPageOutOfRange = errors.New("page out of range")

// Snapshot is the read model the controller exposes.
type Snapshot struct {
	Page     models.Page
	Category string // "" means all categories
	Loading  bool
	Err      error
}

// CanPaginate reports whether page-change actions should be offered. This is
// derived from the data, not separate state.
func (s Snapshot) CanPaginate() bool {
	return s.Page.TotalPages > 1
}

// Empty reports the explicit no-records condition, distinct from an error.
func (s Snapshot) Empty() bool {
	return !s.Loading && s.Err == nil && len(s.Page.Receipts) == 0
}

// ListController issues read queries for the current cursor. Safe for
// concurrent use. The OnChange callback is always invoked outside the
// controller's lock, so it may call back into the controller.
type ListController struct {
	client gqlclient.Client
	log    logging.Logger

	mu         sync.Mutex
	generation uint64
	page       int
	category   string
	snap       Snapshot
	onChange   func(Snapshot)
}

// NewListController builds a controller positioned at page 1, all categories.
// Nothing is fetched until Refresh, SetFilter or SetPage is called.
func NewListController(client gqlclient.Client, log logging.Logger) *ListController {
	return &ListController{
		client: client,
		log:    log.With("component", "receipts"),
		page:   1,
	}
}

// SetOnChange registers a callback invoked with a snapshot copy after every
// applied transition.
func (c *ListController) SetOnChange(fn func(Snapshot)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// SetFilter sets the category filter ("all" or "" clears it), resets the
// cursor to page 1 and issues a query for the new cursor.
func (c *ListController) SetFilter(ctx context.Context, category string) {
	if category == "all" {
		category = ""
	}

	c.mu.Lock()
	c.category = category
	c.page = 1
	c.snap.Category = category
	notify := c.dispatchLocked(ctx)
	c.mu.Unlock()

	notify()
}

// SetPage moves the cursor to page n and issues a query. n must lie within
// [1, totalPages] of the last applied page.
func (c *ListController) SetPage(ctx context.Context, n int) error {
	c.mu.Lock()

	if n < 1 {
		c.mu.Unlock()
		return ErrPageOutOfRange
	}
	if total := c.snap.Page.TotalPages; total > 0 && n > total {
		c.mu.Unlock()
		return ErrPageOutOfRange
	}

	c.page = n
	notify := c.dispatchLocked(ctx)
	c.mu.Unlock()

	notify()
	return nil
}

// Refresh re-issues the query for the current cursor.
func (c *ListController) Refresh(ctx context.Context) {
	c.mu.Lock()
	notify := c.dispatchLocked(ctx)
	c.mu.Unlock()

	notify()
}

// Snapshot returns a copy of the current read model.
func (c *ListController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// dispatchLocked bumps the generation, marks the snapshot loading and starts
// the query for the current cursor. Caller holds c.mu; the returned notify
// func must be called after releasing it.
func (c *ListController) dispatchLocked(ctx context.Context) func() {
	c.generation++
	gen := c.generation
	page, category := c.page, c.category

	c.snap.Loading = true
	snap := c.snap
	fn := c.onChange

	go c.run(ctx, gen, page, category)

	return func() {
		if fn != nil {
			fn(snap)
		}
	}
}

func (c *ListController) run(ctx context.Context, gen uint64, page int, category string) {
	result, err := c.client.Receipts(ctx, page, PageSize, category)

	c.mu.Lock()

	if gen != c.generation {
		c.mu.Unlock()
		c.log.Debug(ctx, "dropping superseded query result", "page", page, "category", category)
		return
	}

	c.snap.Loading = false
	if err != nil {
		// previously displayed page stays untouched
		c.snap.Err = err
		c.log.Warn(ctx, "receipts query failed", "page", page, "error", err)
	} else {
		c.snap.Err = nil
		c.snap.Page = *result
	}
	snap := c.snap
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}
