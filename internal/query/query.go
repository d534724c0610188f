// Package query turns listing options into store filters.
//
// A Listing is an explicit, validated configuration. Unset options are the
// empty value. Regex options are compiled once, case-insensitively, so a bad
// pattern is rejected before any store call is made.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Skotchmaster/marketplace/internal/domain"
)

type Sort int

const (
	SortRelevance Sort = iota
	SortRecent
	SortPopular
	SortPriceAsc
	SortPriceDesc
)

func (s Sort) String() string {
	switch s {
	case SortRecent:
		return "recent"
	case SortPopular:
		return "popular"
	case SortPriceAsc:
		return "price-low"
	case SortPriceDesc:
		return "price-high"
	default:
		return "relevance"
	}
}

func ParseSort(s string) (Sort, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "relevance":
		return SortRelevance, nil
	case "recent":
		return SortRecent, nil
	case "popular":
		return SortPopular, nil
	case "price-low":
		return SortPriceAsc, nil
	case "price-high":
		return SortPriceDesc, nil
	}
	return SortRelevance, fmt.Errorf("%w: unknown sort %q", domain.ErrValidation, s)
}

var niches = map[string][]string{
	"resume":    {"career", "resume", "cv"},
	"business":  {"business", "invoice", "contract"},
	"student":   {"education", "student", "notes"},
	"creator":   {"creative", "design", "graphics"},
	"developer": {"development", "code", "api"},
}

// Niche returns the product categories grouped under a niche type.
func Niche(nicheType string) ([]string, error) {
	cats, ok := niches[nicheType]
	if !ok {
		return nil, fmt.Errorf("%w: invalid niche type %q", domain.ErrValidation, nicheType)
	}
	out := make([]string, len(cats))
	copy(out, cats)
	return out, nil
}

type Listing struct {
	Category   string
	Categories []string
	Location   string
	Search     string
	Sort       Sort
}

type Order struct {
	Column string
	Desc   bool
}

// Pattern matches when Re matches any of Fields.
type Pattern struct {
	Fields []string
	Re     *regexp.Regexp
}

type Filter struct {
	Eq       map[string]any
	In       map[string][]any
	Patterns []Pattern
	Order    []Order
}

func compile(field, expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s pattern: %v", domain.ErrValidation, field, err)
	}
	return re, nil
}

func (l Listing) Validate() error {
	_, err := l.Filter()
	return err
}

func (l Listing) Filter() (Filter, error) {
	f := Filter{Eq: map[string]any{}, In: map[string][]any{}}

	if l.Category != "" {
		f.Eq["category"] = l.Category
	}
	if len(l.Categories) > 0 {
		vals := make([]any, len(l.Categories))
		for i, c := range l.Categories {
			vals[i] = c
		}
		f.In["category"] = vals
	}
	if l.Location != "" {
		re, err := compile("location", l.Location)
		if err != nil {
			return Filter{}, err
		}
		f.Patterns = append(f.Patterns, Pattern{Fields: []string{"location"}, Re: re})
	}
	if l.Search != "" {
		re, err := compile("search", l.Search)
		if err != nil {
			return Filter{}, err
		}
		f.Patterns = append(f.Patterns, Pattern{Fields: []string{"title", "description"}, Re: re})
	}

	switch l.Sort {
	case SortPopular:
		f.Order = []Order{{Column: "downloads", Desc: true}}
	case SortPriceAsc:
		f.Order = []Order{{Column: "price"}}
	case SortPriceDesc:
		f.Order = []Order{{Column: "price", Desc: true}}
	default:
		f.Order = []Order{{Column: "created_at", Desc: true}}
	}
	return f, nil
}

// Target selects the reviews of one (item_id, item_type) pair.
func Target(itemID, itemType string) Filter {
	return Filter{Eq: map[string]any{"item_id": itemID, "item_type": itemType}}
}

// Newest selects rows where column equals value, most recent first.
func Newest(column string, value any) Filter {
	return Filter{
		Eq:    map[string]any{column: value},
		Order: []Order{{Column: "created_at", Desc: true}},
	}
}

// Eq selects rows where column equals value.
func Eq(column string, value any) Filter {
	return Filter{Eq: map[string]any{column: value}}
}

type textDoc interface {
	TextField(name string) string
}

// Match reports whether doc satisfies every pattern of f.
func (f Filter) Match(doc textDoc) bool {
	for _, p := range f.Patterns {
		hit := false
		for _, field := range p.Fields {
			if p.Re.MatchString(doc.TextField(field)) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}
