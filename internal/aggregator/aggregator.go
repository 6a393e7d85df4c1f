// Package aggregator collects the HN feed lists in one pass and resolves
// prefixes of them into stories.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fragmede/hnstories/internal/api"
)

// Policy decides what CollectAll does when a category fails.
type Policy int

const (
	// PolicyBestEffort attempts every category and reports failures alongside
	// the lists that succeeded.
	PolicyBestEffort Policy = iota
	// PolicyFailFast cancels outstanding requests on the first failure and
	// returns no response.
	PolicyFailFast
)

var ErrNegativeAmount = errors.New("amount must not be negative")

// Fetcher is the part of *api.Client the aggregator uses.
type Fetcher interface {
	GetStoryIDs(ctx context.Context, cat api.Category) (api.StoryIDList, error)
	GetStories(ctx context.Context, ids []uint64) ([]*api.Story, error)
}

// CategoryError records the failure of one category fetch.
type CategoryError struct {
	Category api.Category
	Err      error
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *CategoryError) Unwrap() error {
	return e.Err
}

// Aggregator fetches all feeds through a Fetcher.
type Aggregator struct {
	fetcher       Fetcher
	policy        Policy
	maxConcurrent int
	log           logrus.FieldLogger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

func WithPolicy(p Policy) Option {
	return func(a *Aggregator) { a.policy = p }
}

func WithMaxConcurrent(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxConcurrent = n
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Aggregator) { a.log = l }
}

// New creates an Aggregator.
func New(f Fetcher, opts ...Option) *Aggregator {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	a := &Aggregator{
		fetcher:       f,
		policy:        PolicyBestEffort,
		maxConcurrent: len(api.ListCategories),
		log:           discard,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CollectAll fetches the six feed lists. Requests are started in the order
// of api.ListCategories and run concurrently up to the configured limit.
//
// Under PolicyBestEffort the returned Response is always non-nil and the
// error, if any, joins one *CategoryError per failed category. Under
// PolicyFailFast a failure yields a nil Response.
func (a *Aggregator) CollectAll(ctx context.Context) (*Response, error) {
	lists := make([]api.StoryIDList, len(api.ListCategories))
	errs := make([]error, len(api.ListCategories))

	var g *errgroup.Group
	if a.policy == PolicyFailFast {
		g, ctx = errgroup.WithContext(ctx)
	} else {
		g = &errgroup.Group{}
	}
	g.SetLimit(a.maxConcurrent)

	for i, cat := range api.ListCategories {
		i, cat := i, cat
		g.Go(func() error {
			ids, err := a.fetcher.GetStoryIDs(ctx, cat)
			if err != nil {
				a.log.WithField("category", cat).WithError(err).Warn("fetching story list failed")
				errs[i] = &CategoryError{Category: cat, Err: err}
				if a.policy == PolicyFailFast {
					return errs[i]
				}
				return nil
			}
			a.log.WithFields(logrus.Fields{"category": cat, "count": len(ids)}).Debug("fetched story list")
			lists[i] = ids
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := newResponse(lists, errs)
	return resp, resp.Err()
}

// Entry is a resolved story with its position in the category list.
type Entry struct {
	Index int
	Story *api.Story
}

// Resolve fetches the first amount stories of cat from resp, in list order.
// A category that was never fetched resolves to nothing.
func (a *Aggregator) Resolve(ctx context.Context, resp *Response, cat api.Category, amount int) ([]Entry, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeAmount, amount)
	}
	if !cat.IsList() {
		return nil, fmt.Errorf("resolving %s: %w", cat, api.ErrNotAList)
	}

	ids := resp.Take(cat, amount)
	if len(ids) == 0 {
		return []Entry{}, nil
	}

	stories, err := a.fetcher.GetStories(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolving %s stories: %w", cat, err)
	}

	entries := make([]Entry, len(stories))
	for i, s := range stories {
		entries[i] = Entry{Index: i, Story: s}
	}
	return entries, nil
}
