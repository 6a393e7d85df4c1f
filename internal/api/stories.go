package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrNotAList        = errors.New("category is not a story list")
	ErrMissingItemID   = errors.New("item lookup requires an id")
)

// ListURL returns the feed URL for c under base, e.g. {base}/topstories.json.
func ListURL(base string, c Category) (string, error) {
	if !c.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownCategory, c)
	}
	if !c.IsList() {
		return "", ErrNotAList
	}
	return trimBase(base) + "/" + c.Segment() + ".json", nil
}

// ItemURL returns {base}/item/{id}.json.
func ItemURL(base string, id uint64) string {
	return trimBase(base) + "/" + CategoryItem.Segment() + "/" + strconv.FormatUint(id, 10) + ".json"
}

// Resolve builds the URL for c. id must be set for CategoryItem and nil otherwise.
func Resolve(base string, c Category, id *uint64) (string, error) {
	if c == CategoryItem {
		if id == nil {
			return "", ErrMissingItemID
		}
		return ItemURL(base, *id), nil
	}
	if id != nil {
		return "", fmt.Errorf("%s feed does not take an item id", c)
	}
	return ListURL(base, c)
}

func trimBase(base string) string {
	return strings.TrimRight(base, "/")
}
