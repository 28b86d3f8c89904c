package product

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
products:
  - name: Wool Overcoat
    description: Long wool overcoat
    price: "249.00"
    sale_price: "199.00"
    sale: true
    category: men
    images: ["https://img.example.com/coat.jpg"]
    colors: ["Camel", {name: Navy, available: false}]
    sizes: [S, M, L]
    details: 80% wool
    care: Dry clean only
    shipping: Free shipping
  - name: Canvas Tote
    description: Everyday tote
    price: "39"
    category: accessories
    images: ["https://img.example.com/tote.jpg"]
    colors: [{name: Natural}]
    sizes: [One Size]
    featured: true
    details: Cotton canvas
    care: Spot clean
    shipping: Ships in 2 days
`

func TestLoadSeed(t *testing.T) {
	inputs, err := LoadSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	coat := inputs[0]
	assert.Equal(t, CategoryMen, coat.Category)
	assert.True(t, coat.OnSale)
	require.NotNil(t, coat.SalePrice)
	assert.Equal(t, "199", coat.SalePrice.String())
	assert.Equal(t, Options{{Name: "Camel", Available: true}, {Name: "Navy", Available: false}}, coat.Colors)
	assert.Equal(t, []string{"S", "M", "L"}, coat.Sizes.Names())

	tote := inputs[1]
	assert.Nil(t, tote.SalePrice)
	assert.True(t, tote.Featured)
	assert.Equal(t, Options{{Name: "Natural", Available: true}}, tote.Colors)
}

func TestLoadSeed_RejectsInvalidProducts(t *testing.T) {
	bad := `
products:
  - name: Nameless Sizes
    description: x
    price: "10"
    category: hats
    images: []
    colors: [Red]
    sizes: []
    details: x
    care: x
    shipping: x
`
	_, err := LoadSeed(strings.NewReader(bad))
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["category"])
	assert.True(t, fields["images"])
	assert.True(t, fields["sizes"])
}

func TestLoadSeed_BadPrice(t *testing.T) {
	_, err := LoadSeed(strings.NewReader("products:\n  - name: X\n    price: cheap\n"))
	assert.ErrorContains(t, err, "invalid price")
}

func TestValidateInput_Pricing(t *testing.T) {
	in := validInput()
	require.NoError(t, ValidateInput(in))

	in.OnSale = true
	err := ValidateInput(in)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "sale_price", verr.Fields[0].Field)

	high := dec("500")
	in.SalePrice = &high
	err = ValidateInput(in)
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Error(), "Sale price must be less than price")
}

func TestValidateInput_OptionNames(t *testing.T) {
	in := validInput()
	in.Colors = Options{{Name: ""}}

	err := ValidateInput(in)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "colors[0].name", verr.Fields[0].Field)
}

func validInput() *ProductInput {
	return &ProductInput{
		Name:        "Linen Shirt",
		Description: "Breezy linen shirt",
		Price:       dec("79"),
		Category:    CategoryMen,
		Images:      []string{"https://img.example.com/shirt.jpg"},
		Colors:      Options{{Name: "White", Available: true}},
		Sizes:       Options{{Name: "M", Available: true}},
		Details:     "100% linen",
		Care:        "Machine wash cold",
		Shipping:    "Free shipping over $100",
	}
}
