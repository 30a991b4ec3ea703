package models

type LineItemKind string

const (
	KindCatalog LineItemKind = "catalog"
	KindCustom  LineItemKind = "custom"
)

// ProductConfig carries the variant a shopper picked for a catalog product.
type ProductConfig struct {
	ProductID int      `json:"productId"`
	SizeLabel string   `json:"sizeLabel,omitempty"`
	Color     string   `json:"color,omitempty"`
	AddOns    []string `json:"addOns,omitempty"`
}

// CustomConfig describes a fully configured custom sign.
type CustomConfig struct {
	Text                string `json:"text" binding:"required"`
	Font                string `json:"font" binding:"required"`
	Color               string `json:"color" binding:"required"`
	Size                string `json:"size" binding:"required,oneof=Small Medium Large"`
	HasDimmer           bool   `json:"hasDimmer"`
	BackingShape        string `json:"backingShape" binding:"omitempty,oneof=rectangle cut-to-shape"`
	PreviewImageDataURI string `json:"previewImageDataUri,omitempty"`
	PreviewImageURL     string `json:"previewImageUrl,omitempty"`
}

// CartLineItem is either a catalog item (ProductConfig may be set) or a
// custom sign (CustomConfig is set), discriminated by Kind.
type CartLineItem struct {
	ID            string         `json:"id"`
	Kind          LineItemKind   `json:"kind" binding:"required,oneof=catalog custom"`
	Name          string         `json:"name" binding:"required"`
	UnitPrice     int64          `json:"unitPrice" binding:"min=0"`
	Image         string         `json:"image"`
	Quantity      int            `json:"quantity" binding:"required,min=1"`
	ProductConfig *ProductConfig `json:"productConfig,omitempty"`
	CustomConfig  *CustomConfig  `json:"customConfig,omitempty"`
}

func (i CartLineItem) IsCustom() bool {
	return i.Kind == KindCustom && i.CustomConfig != nil
}

func (i CartLineItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// CartSnapshot is a point-in-time copy of a cart with its derived totals.
type CartSnapshot struct {
	Items      []CartLineItem `json:"items"`
	TotalItems int            `json:"totalItems"`
	TotalPrice int64          `json:"totalPrice"`
}
