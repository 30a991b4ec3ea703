// Package pricing holds the price rules for custom neon signs. The preview
// endpoint and the order composer both price through PriceCustom.
package pricing

import (
	"unicode/utf8"

	"github.com/Kariqs/neon-store-api/models"
)

const (
	SizeSmall  = "Small"
	SizeMedium = "Medium"
	SizeLarge  = "Large"

	BackingRectangle  = "rectangle"
	BackingCutToShape = "cut-to-shape"

	FreeCharacterThreshold = 10
	PerCharacterRate       = 50
	DimmerFee              = 299
	CutToShapeFee          = 499

	// DeliveryFee is charged once per order.
	DeliveryFee = 0
)

var basePrices = map[string]int64{
	SizeSmall:  1499,
	SizeMedium: 1949,
	SizeLarge:  2999,
}

type Breakdown struct {
	BasePrice      int64 `json:"basePrice"`
	CharacterPrice int64 `json:"characterPrice"`
	DimmerPrice    int64 `json:"dimmerPrice"`
	BackingPrice   int64 `json:"backingPrice"`
	UnitTotal      int64 `json:"unitTotal"`
	Quantity       int   `json:"quantity"`
	Total          int64 `json:"total"`
}

// BasePrice returns the size tier price. Sizes are validated upstream; an
// unknown size falls back to the smallest tier.
func BasePrice(size string) int64 {
	if p, ok := basePrices[size]; ok {
		return p
	}
	return basePrices[SizeSmall]
}

func CharacterPrice(text string) int64 {
	extra := utf8.RuneCountInString(text) - FreeCharacterThreshold
	if extra <= 0 {
		return 0
	}
	return int64(extra) * PerCharacterRate
}

func PriceCustom(cfg models.CustomConfig, quantity int) Breakdown {
	b := Breakdown{
		BasePrice:      BasePrice(cfg.Size),
		CharacterPrice: CharacterPrice(cfg.Text),
		Quantity:       quantity,
	}
	if cfg.HasDimmer {
		b.DimmerPrice = DimmerFee
	}
	if cfg.BackingShape == BackingCutToShape {
		b.BackingPrice = CutToShapeFee
	}
	b.UnitTotal = b.BasePrice + b.CharacterPrice + b.DimmerPrice + b.BackingPrice
	b.Total = b.UnitTotal * int64(quantity)
	return b
}

// Sizes lists the size tiers with their base price.
func Sizes() map[string]int64 {
	out := make(map[string]int64, len(basePrices))
	for k, v := range basePrices {
		out[k] = v
	}
	return out
}
