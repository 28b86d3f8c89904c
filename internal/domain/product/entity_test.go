package product

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_UnmarshalBothShapes(t *testing.T) {
	raw := `["S", {"name": "M", "available": false}, {"name": "L"}]`

	var opts Options
	require.NoError(t, json.Unmarshal([]byte(raw), &opts))

	assert.Equal(t, Options{
		{Name: "S", Available: true},
		{Name: "M", Available: false},
		{Name: "L", Available: true},
	}, opts)
	assert.Equal(t, []string{"S", "M", "L"}, opts.Names())
	assert.True(t, opts.Contains("M"))
	assert.False(t, opts.Contains("XL"))
}

func TestOptions_RejectsOtherShapes(t *testing.T) {
	var opts Options
	assert.Error(t, json.Unmarshal([]byte(`[42]`), &opts))
}

func TestProduct_EffectivePrice(t *testing.T) {
	p := Product{Price: dec("100")}
	assert.True(t, p.EffectivePrice().Equal(dec("100")))

	p.SalePrice = sale("79.5")
	assert.True(t, p.EffectivePrice().Equal(dec("79.5")))
}

func TestProduct_GetDiscountPercentage(t *testing.T) {
	assert.Equal(t, 0, (&Product{Price: dec("100")}).GetDiscountPercentage())
	assert.Equal(t, 25, (&Product{Price: dec("100"), SalePrice: sale("75")}).GetDiscountPercentage())
	assert.Equal(t, 33, (&Product{Price: dec("90"), SalePrice: sale("60")}).GetDiscountPercentage())
}

func TestProduct_CheckPricing(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		wantErr bool
	}{
		{"plain", Product{Price: dec("10")}, false},
		{"on sale", Product{Price: dec("10"), SalePrice: sale("8"), OnSale: true}, false},
		{"sale not lower", Product{Price: dec("10"), SalePrice: sale("10")}, true},
		{"on sale without sale price", Product{Price: dec("10"), OnSale: true}, true},
		{"negative", Product{Price: decimal.NewFromInt(-1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.CheckPricing()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCategory(t *testing.T) {
	assert.True(t, CategoryShoes.Valid())
	assert.False(t, Category("hats").Valid())
	assert.Equal(t, "Women", CategoryWomen.DisplayName())
}
