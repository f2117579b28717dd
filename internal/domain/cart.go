package domain

import "encoding/json"

// CartLineItem is one product entry in the client-side cart.
type CartLineItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
	Seller   string  `json:"seller,omitempty"`
	SKU      string  `json:"sku,omitempty"`
}

// UnmarshalJSON accepts carts written by the older product page, which stored
// the display name under "title".
func (i *CartLineItem) UnmarshalJSON(data []byte) error {
	type plain CartLineItem
	var raw struct {
		plain
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = CartLineItem(raw.plain)
	if i.Name == "" {
		i.Name = raw.Title
	}
	return nil
}

// Cart is the ordered list of line items, unique by item id.
type Cart struct {
	Items []CartLineItem `json:"items"`
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount sums quantities across all lines.
func (c Cart) ItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Find returns the index of the line with the given id, or -1.
func (c Cart) Find(id int64) int {
	for idx, item := range c.Items {
		if item.ID == id {
			return idx
		}
	}
	return -1
}

// ComparisonItem is a product pinned for side-by-side comparison.
type ComparisonItem struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Price    float64           `json:"price"`
	Image    string            `json:"image,omitempty"`
	Brand    string            `json:"brand,omitempty"`
	Category string            `json:"category,omitempty"`
	Specs    map[string]string `json:"specs,omitempty"`
}
