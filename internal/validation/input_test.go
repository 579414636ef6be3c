package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePrices_NoReserve(t *testing.T) {
	// Нулевая резервная цена означает торги без резерва.
	assert.NoError(t, ValidatePrices(1000, 0, 50))
}

func TestValidatePrices_ReserveBelowStarting(t *testing.T) {
	err := ValidatePrices(1000, 500, 50)
	assert.Error(t, err)
}

func TestValidatePrices_NegativeReserve(t *testing.T) {
	err := ValidatePrices(1000, -1, 50)
	assert.Error(t, err)
}

func TestValidatePrices_ReserveAtStarting(t *testing.T) {
	assert.NoError(t, ValidatePrices(1000, 1000, 50))
}

func TestValidatePrices_StartingRequired(t *testing.T) {
	assert.Error(t, ValidatePrices(0, 0, 50))
	assert.Error(t, ValidatePrices(-10, 0, 50))
}

func TestValidatePrices_BidIncrementRequired(t *testing.T) {
	assert.Error(t, ValidatePrices(1000, 0, 0))
}

func TestValidateAuctionTitle(t *testing.T) {
	assert.NoError(t, ValidateAuctionTitle("Торги по карманным часам Breguet"))
	assert.Error(t, ValidateAuctionTitle(""))
	assert.Error(t, ValidateAuctionTitle("   "))
	assert.Error(t, ValidateAuctionTitle("ок"))
	assert.Error(t, ValidateAuctionTitle(strings.Repeat("а", MaxAuctionTitleLength+1)))
}
