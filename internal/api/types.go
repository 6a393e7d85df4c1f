package api

import (
	"fmt"
	"strings"
)

// Category identifies an HN feed, or a single item lookup for CategoryItem.
type Category int

const (
	CategoryTop Category = iota
	CategoryNew
	CategoryBest
	CategoryAsk
	CategoryShow
	CategoryJob
	CategoryItem
)

type categoryInfo struct {
	segment string
	name    string
}

var categories = [...]categoryInfo{
	CategoryTop:  {"topstories", "Top"},
	CategoryNew:  {"newstories", "New"},
	CategoryBest: {"beststories", "Best"},
	CategoryAsk:  {"askstories", "Ask"},
	CategoryShow: {"showstories", "Show"},
	CategoryJob:  {"jobstories", "Job"},
	CategoryItem: {"item", "Item"},
}

// ListCategories are the six feeds in collection order.
var ListCategories = []Category{
	CategoryTop,
	CategoryNew,
	CategoryAsk,
	CategoryJob,
	CategoryBest,
	CategoryShow,
}

// DisplayOrder is the order categories are printed in when none are requested.
var DisplayOrder = []Category{
	CategoryShow,
	CategoryJob,
	CategoryBest,
	CategoryTop,
	CategoryNew,
	CategoryAsk,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categories)
}

// IsList reports whether c is one of the six story ID feeds.
func (c Category) IsList() bool {
	return c.Valid() && c != CategoryItem
}

// Segment returns the API path segment, e.g. "topstories".
func (c Category) Segment() string {
	if !c.Valid() {
		return ""
	}
	return categories[c].segment
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categories[c].name
}

// ParseCategory maps a short name like "top" or "show" to a list category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return CategoryTop, nil
	case "new":
		return CategoryNew, nil
	case "best":
		return CategoryBest, nil
	case "ask":
		return CategoryAsk, nil
	case "show":
		return CategoryShow, nil
	case "job", "jobs":
		return CategoryJob, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// StoryIDList is the ordered list of IDs returned by a feed endpoint.
type StoryIDList []uint64

// Story is an item as returned by the item endpoint.
type Story struct {
	By          string   `json:"by"`
	Descendants *uint    `json:"descendants,omitempty"`
	ID          uint64   `json:"id"`
	Kids        []uint64 `json:"kids,omitempty"`
	Score       uint     `json:"score"`
	Time        int64    `json:"time"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	URL         string   `json:"url,omitempty"`
}
