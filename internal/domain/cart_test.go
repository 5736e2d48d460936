package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinCartMergesProductFields(t *testing.T) {
	catalog := NewCatalog([]Product{
		{ID: "p1", Name: "iPhone XR", Category: "Phones", Cost: decimal.NewFromInt(100), Rating: 4},
		{ID: "p2", Name: "Basketball", Category: "Sports", Cost: decimal.RequireFromString("12.50"), Rating: 5},
	})
	lines := []CartLine{{ProductID: "p2", Qty: 2}, {ProductID: "p1", Qty: 1}}

	joined := JoinCart(lines, catalog)

	require.Len(t, joined, 2)
	assert.Equal(t, "Basketball", joined[0].Product.Name)
	assert.True(t, joined[0].Found)
	assert.Equal(t, 2, joined[0].Qty)
	assert.True(t, decimal.RequireFromString("25").Equal(joined[0].LineTotal()))
	assert.Equal(t, "iPhone XR", joined[1].Title())
}

func TestJoinCartDegradesMissingProduct(t *testing.T) {
	joined := JoinCart([]CartLine{{ProductID: "gone", Qty: 3}}, NewCatalog(nil))

	require.Len(t, joined, 1)
	line := joined[0]
	assert.False(t, line.Found)
	assert.Equal(t, "gone", line.ProductID)
	assert.Equal(t, 3, line.Qty)
	assert.Empty(t, line.Product.Name)
	assert.Equal(t, "gone", line.Title())
	assert.True(t, line.LineTotal().IsZero())
}

func TestJoinCartEmpty(t *testing.T) {
	joined := JoinCart(nil, NewCatalog(nil))
	assert.NotNil(t, joined)
	assert.Empty(t, joined)
}

func TestContainsProduct(t *testing.T) {
	lines := []CartLine{{ProductID: "a", Qty: 1}}
	assert.True(t, ContainsProduct(lines, "a"))
	assert.False(t, ContainsProduct(lines, "b"))
	assert.False(t, ContainsProduct(nil, "a"))
}

func TestProductStarsClamp(t *testing.T) {
	assert.Equal(t, 0, Product{Rating: -2}.Stars())
	assert.Equal(t, 3, Product{Rating: 3}.Stars())
	assert.Equal(t, MaxRating, Product{Rating: 9}.Stars())
}

func TestSessionIsLoggedIn(t *testing.T) {
	assert.False(t, Session{}.IsLoggedIn())
	assert.False(t, Session{Token: "t"}.IsLoggedIn())
	assert.True(t, Session{Username: "crio", Token: "t"}.IsLoggedIn())
}
