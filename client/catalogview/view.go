// Package catalogview derives the displayed product list from filters and a sort mode.
// It has no side effects.
package catalogview

import (
	"errors"
	"fmt"
	"sort"

	"github.com/example/footwear-wholesale/domain/product"
)

// SortMode selects the ordering of the filtered products.
type SortMode string

// Sort modes.
const (
	SortDefault      SortMode = "default"
	SortNewFirst     SortMode = "new_first"
	SortPopularFirst SortMode = "popular_first"
)

// ErrUnknownSortMode is returned by ParseSortMode for unsupported values.
var ErrUnknownSortMode = errors.New("unknown sort mode")

// ParseSortMode maps user input to a SortMode. Empty input selects SortDefault.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortDefault:
		return SortDefault, nil
	case SortNewFirst, SortPopularFirst:
		return SortMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortMode, s)
}

// Filter is the active filter selection. Zero values mean "no filter".
type Filter struct {
	Season  product.Season
	Gender  product.Gender
	NewOnly bool
}

// Matches reports whether p passes the filter. All-season and unisex
// products pass any season and gender filter respectively.
func (f Filter) Matches(p *product.Product) bool {
	if f.Season != "" && p.Season != f.Season && p.Season != product.SeasonAll {
		return false
	}
	if f.Gender != "" && p.Gender != f.Gender && p.Gender != product.GenderUnisex {
		return false
	}
	if f.NewOnly && !p.IsNew {
		return false
	}
	return true
}

// Apply filters products, then stable-sorts the subset. The input is not modified.
func Apply(products []product.Product, f Filter, mode SortMode) []product.Product {
	out := make([]product.Product, 0, len(products))
	for i := range products {
		if f.Matches(&products[i]) {
			out = append(out, products[i])
		}
	}

	var score func(*product.Product) int
	switch mode {
	case SortNewFirst:
		score = func(p *product.Product) int { return boolScore(p.IsNew) }
	case SortPopularFirst:
		score = func(p *product.Product) int { return boolScore(p.IsBestseller) }
	default:
		score = defaultScore
	}

	sort.SliceStable(out, func(i, j int) bool {
		return score(&out[i]) > score(&out[j])
	})
	return out
}

// defaultScore buckets products into four groups; order within a group is kept.
func defaultScore(p *product.Product) int {
	return 2*boolScore(p.IsBestseller) + boolScore(p.IsNew)
}

func boolScore(b bool) int {
	if b {
		return 1
	}
	return 0
}
