package product

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sale(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }

func fullRange() PriceRange {
	return PriceRange{Min: decimal.Zero, Max: dec("100000")}
}

// sampleCatalog has 8 products: men 2, women 3, shoes 2, accessories 1
func sampleCatalog() []Product {
	return []Product{
		{ID: "p1", Name: "Oxford Shirt", Description: "Crisp cotton shirt", Category: CategoryMen, Price: dec("59.99"), Featured: true},
		{ID: "p2", Name: "Merino Sweater", Description: "Soft WOOL knit", Category: CategoryMen, Price: dec("120"), SalePrice: sale("89.99"), OnSale: true},
		{ID: "p3", Name: "Wool Coat", Description: "Double-breasted winter coat", Category: CategoryWomen, Price: dec("249"), New: true},
		{ID: "p4", Name: "Silk Dress", Description: "Evening dress", Category: CategoryWomen, Price: dec("180"), SalePrice: sale("140"), OnSale: true, Featured: true},
		{ID: "p5", Name: "Linen Trousers", Description: "Relaxed fit", Category: CategoryWomen, Price: dec("75"), New: true},
		{ID: "p6", Name: "Leather Boots", Description: "Chelsea boots", Category: CategoryShoes, Price: dec("199"), Featured: true, New: true},
		{ID: "p7", Name: "Canvas Sneakers", Description: "Everyday sneakers", Category: CategoryShoes, Price: dec("65"), SalePrice: sale("49"), OnSale: true},
		{ID: "p8", Name: "Tote Bag", Description: "Waxed canvas tote", Category: CategoryAccessories, Price: dec("89")},
	}
}

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter_NoCriteriaKeepsCatalog(t *testing.T) {
	catalog := sampleCatalog()

	got := Filter(catalog, FilterCriteria{PriceRange: fullRange()})

	if diff := cmp.Diff(ids(catalog), ids(got)); diff != "" {
		t.Errorf("default order changed (-want +got):\n%s", diff)
	}
}

func TestFilter_NoCriteriaSortedIsPermutation(t *testing.T) {
	catalog := sampleCatalog()

	for _, key := range []SortKey{SortPriceAsc, SortPriceDesc} {
		t.Run(string(key), func(t *testing.T) {
			got := Filter(catalog, FilterCriteria{PriceRange: fullRange(), Sort: key})
			assert.ElementsMatch(t, ids(catalog), ids(got))
		})
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	catalog := sampleCatalog()
	before := ids(catalog)

	_ = Filter(catalog, FilterCriteria{PriceRange: fullRange(), Sort: SortPriceDesc})

	assert.Equal(t, before, ids(catalog))
}

func TestFilter_Category(t *testing.T) {
	got := Filter(sampleCatalog(), FilterCriteria{Category: CategoryShoes, PriceRange: fullRange()})

	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, CategoryShoes, p.Category)
	}
}

func TestFilter_SearchIsCaseInsensitive(t *testing.T) {
	tests := []struct {
		search string
		want   []string
	}{
		{"wool", []string{"p2", "p3"}},
		{"WOOL", []string{"p2", "p3"}},
		{"Wool", []string{"p2", "p3"}},
		{"accessories", []string{"p8"}},
		{"canvas", []string{"p7", "p8"}},
		{"cashmere", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			got := Filter(sampleCatalog(), FilterCriteria{Search: tt.search, PriceRange: fullRange()})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_SaleOnly(t *testing.T) {
	catalog := sampleCatalog()
	c := FilterCriteria{SaleOnly: true, PriceRange: fullRange()}

	once := Filter(catalog, c)
	for _, p := range catalog {
		found := false
		for _, q := range once {
			if q.ID == p.ID {
				found = true
			}
		}
		assert.Equal(t, p.OnSale, found, "product %s", p.ID)
	}

	twice := Filter(once, c)
	assert.Equal(t, ids(once), ids(twice))
}

func TestFilter_FlagsCombineWithAnd(t *testing.T) {
	got := Filter(sampleCatalog(), FilterCriteria{FeaturedOnly: true, NewOnly: true, PriceRange: fullRange()})
	assert.Equal(t, []string{"p6"}, ids(got))

	got = Filter(sampleCatalog(), FilterCriteria{FeaturedOnly: true, SaleOnly: true, PriceRange: fullRange()})
	assert.Equal(t, []string{"p4"}, ids(got))
}

func TestFilter_PriceRangeUsesEffectivePrice(t *testing.T) {
	// p2 is 120 with a sale price of 89.99
	got := Filter(sampleCatalog(), FilterCriteria{PriceRange: PriceRange{Min: dec("80"), Max: dec("90")}})
	assert.Equal(t, []string{"p2", "p8"}, ids(got))

	// bounds are inclusive
	got = Filter(sampleCatalog(), FilterCriteria{PriceRange: PriceRange{Min: dec("49"), Max: dec("49")}})
	assert.Equal(t, []string{"p7"}, ids(got))
}

func TestFilter_InvertedRangeMatchesNothing(t *testing.T) {
	got := Filter(sampleCatalog(), FilterCriteria{PriceRange: PriceRange{Min: dec("300"), Max: dec("10")}})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilter_AscendingIsReverseOfDescending(t *testing.T) {
	base := FilterCriteria{PriceRange: fullRange()}

	asc := base
	asc.Sort = SortPriceAsc
	desc := base
	desc.Sort = SortPriceDesc

	ascIDs := ids(Filter(sampleCatalog(), asc))
	descIDs := ids(Filter(sampleCatalog(), desc))

	reversed := make([]string, len(descIDs))
	for i, id := range descIDs {
		reversed[len(descIDs)-1-i] = id
	}
	assert.Equal(t, ascIDs, reversed)
	assert.Equal(t, []string{"p7", "p1", "p5", "p8", "p2", "p4", "p6", "p3"}, ascIDs)
}

func TestFilter_SortIsStableOnTies(t *testing.T) {
	catalog := []Product{
		{ID: "a", Category: CategoryMen, Price: dec("50")},
		{ID: "b", Category: CategoryMen, Price: dec("20")},
		{ID: "c", Category: CategoryMen, Price: dec("70"), SalePrice: sale("50")},
		{ID: "d", Category: CategoryMen, Price: dec("50")},
	}

	asc := Filter(catalog, FilterCriteria{PriceRange: fullRange(), Sort: SortPriceAsc})
	assert.Equal(t, []string{"b", "a", "c", "d"}, ids(asc))

	desc := Filter(catalog, FilterCriteria{PriceRange: fullRange(), Sort: SortPriceDesc})
	assert.Equal(t, []string{"a", "c", "d", "b"}, ids(desc))
}

func TestParseSortKey(t *testing.T) {
	for _, in := range []string{"", "default"} {
		got, err := ParseSortKey(in)
		require.NoError(t, err)
		assert.Equal(t, SortDefault, got)
	}

	got, err := ParseSortKey("price-desc")
	require.NoError(t, err)
	assert.Equal(t, SortPriceDesc, got)

	_, err = ParseSortKey("popularity")
	assert.Error(t, err)
}

func TestFilterCriteria_Title(t *testing.T) {
	tests := []struct {
		c    FilterCriteria
		want string
	}{
		{FilterCriteria{Search: "wool", Category: CategoryMen}, `Search Results: "wool"`},
		{FilterCriteria{Search: `say "hi"`}, `Search Results: "say "hi""`},
		{FilterCriteria{Search: `C:\coats`}, `Search Results: "C:\coats"`},
		{FilterCriteria{Category: CategoryAccessories, FeaturedOnly: true}, "Accessories"},
		{FilterCriteria{Category: "hats"}, "Products"},
		{FilterCriteria{FeaturedOnly: true, NewOnly: true}, "Featured Products"},
		{FilterCriteria{NewOnly: true}, "New Arrivals"},
		{FilterCriteria{SaleOnly: true}, "Sale Items"},
		{FilterCriteria{}, "All Products"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Title())
		})
	}
}
