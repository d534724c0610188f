package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/domain"
	"github.com/Skotchmaster/marketplace/internal/models"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		in   string
		want Sort
	}{
		{"", SortRelevance},
		{"relevance", SortRelevance},
		{"recent", SortRecent},
		{"popular", SortPopular},
		{"price-low", SortPriceAsc},
		{"PRICE-HIGH", SortPriceDesc},
	}
	for _, tt := range tests {
		got, err := ParseSort(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseSort("cheapest")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNiche(t *testing.T) {
	cats, err := Niche("resume")
	require.NoError(t, err)
	assert.Equal(t, []string{"career", "resume", "cv"}, cats)

	cats[0] = "mutated"
	again, _ := Niche("resume")
	assert.Equal(t, "career", again[0])

	for _, n := range []string{"business", "student", "creator", "developer"} {
		_, err := Niche(n)
		assert.NoError(t, err, n)
	}

	_, err = Niche("unknown")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListingFilter_Orders(t *testing.T) {
	tests := []struct {
		sort Sort
		want Order
	}{
		{SortRelevance, Order{Column: "created_at", Desc: true}},
		{SortRecent, Order{Column: "created_at", Desc: true}},
		{SortPopular, Order{Column: "downloads", Desc: true}},
		{SortPriceAsc, Order{Column: "price"}},
		{SortPriceDesc, Order{Column: "price", Desc: true}},
	}
	for _, tt := range tests {
		f, err := Listing{Sort: tt.sort}.Filter()
		require.NoError(t, err)
		assert.Equal(t, []Order{tt.want}, f.Order, tt.sort.String())
	}
}

func TestListingFilter_Predicates(t *testing.T) {
	f, err := Listing{
		Category:   "design",
		Categories: []string{"career", "cv"},
		Location:   "paris",
		Search:     "logo",
	}.Filter()
	require.NoError(t, err)

	assert.Equal(t, "design", f.Eq["category"])
	assert.Equal(t, []any{"career", "cv"}, f.In["category"])
	require.Len(t, f.Patterns, 2)
	assert.Equal(t, []string{"location"}, f.Patterns[0].Fields)
	assert.Equal(t, []string{"title", "description"}, f.Patterns[1].Fields)
}

func TestListingValidate_BadPattern(t *testing.T) {
	err := Listing{Search: "("}.Validate()
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = Listing{Location: "[a-"}.Validate()
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.NoError(t, Listing{}.Validate())
}

func TestFilterMatch(t *testing.T) {
	f, err := Listing{Search: "CV"}.Filter()
	require.NoError(t, err)

	assert.True(t, f.Match(models.Product{Title: "Modern cv template"}))
	assert.True(t, f.Match(models.Product{Title: "Resume", Description: "ats friendly Cv"}))
	assert.False(t, f.Match(models.Product{Title: "Resume", Description: "one page"}))

	loc, err := Listing{Location: "^new", Search: "plumb"}.Filter()
	require.NoError(t, err)
	assert.True(t, loc.Match(models.Service{Title: "Plumbing", Location: "New York"}))
	assert.False(t, loc.Match(models.Service{Title: "Plumbing", Location: "Old York"}))
	assert.False(t, loc.Match(models.Service{Title: "Painting", Location: "New York"}))

	assert.True(t, Filter{}.Match(models.Product{}))
}

func TestTargetAndNewest(t *testing.T) {
	f := Target("abc", "product")
	assert.Equal(t, map[string]any{"item_id": "abc", "item_type": "product"}, f.Eq)
	assert.Empty(t, f.Order)

	n := Newest("customer_id", "u1")
	assert.Equal(t, "u1", n.Eq["customer_id"])
	assert.Equal(t, []Order{{Column: "created_at", Desc: true}}, n.Order)
}
