package aggregator

import (
	"errors"

	"github.com/fragmede/hnstories/internal/api"
)

// Response holds one optional ID list per feed. It is read-only once
// CollectAll returns it.
type Response struct {
	lists map[api.Category]api.StoryIDList
	errs  map[api.Category]error
}

func newResponse(lists []api.StoryIDList, errs []error) *Response {
	r := &Response{
		lists: make(map[api.Category]api.StoryIDList, len(lists)),
		errs:  make(map[api.Category]error),
	}
	for i, cat := range api.ListCategories {
		if errs[i] != nil {
			r.errs[cat] = errs[i]
			continue
		}
		if lists[i] != nil {
			r.lists[cat] = lists[i]
		}
	}
	return r
}

// NewResponse builds a Response from already fetched lists.
func NewResponse(lists map[api.Category]api.StoryIDList) *Response {
	r := &Response{
		lists: make(map[api.Category]api.StoryIDList, len(lists)),
		errs:  make(map[api.Category]error),
	}
	for cat, ids := range lists {
		if cat.IsList() && ids != nil {
			r.lists[cat] = clone(ids)
		}
	}
	return r
}

// IDs returns a copy of the list for cat and whether it was fetched.
func (r *Response) IDs(cat api.Category) (api.StoryIDList, bool) {
	if r == nil {
		return nil, false
	}
	ids, ok := r.lists[cat]
	if !ok {
		return nil, false
	}
	return clone(ids), true
}

func clone(ids api.StoryIDList) api.StoryIDList {
	out := make(api.StoryIDList, len(ids))
	copy(out, ids)
	return out
}

// Take returns at most n leading IDs of cat. Missing categories yield nil.
func (r *Response) Take(cat api.Category, n int) []uint64 {
	if r == nil || n <= 0 {
		return nil
	}
	ids := r.lists[cat]
	if n > len(ids) {
		n = len(ids)
	}
	return append([]uint64(nil), ids[:n]...)
}

// CategoryErr returns the error recorded for cat, if any.
func (r *Response) CategoryErr(cat api.Category) error {
	if r == nil {
		return nil
	}
	return r.errs[cat]
}

// Failed lists the categories that could not be fetched, in collection order.
func (r *Response) Failed() []api.Category {
	if r == nil {
		return nil
	}
	var failed []api.Category
	for _, cat := range api.ListCategories {
		if _, ok := r.errs[cat]; ok {
			failed = append(failed, cat)
		}
	}
	return failed
}

// Err joins the recorded category errors in collection order, or returns nil.
func (r *Response) Err() error {
	var errs []error
	for _, cat := range r.Failed() {
		errs = append(errs, r.errs[cat])
	}
	return errors.Join(errs...)
}
