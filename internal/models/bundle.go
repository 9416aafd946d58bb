package models

// Bundle is a fixed, server-priced purchasable package.
// Prices are integer cents.
type Bundle struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Price          int64  `json:"price"`
	CompareAtPrice int64  `json:"compareAtPrice"`
	SKU            string `json:"sku"`
}

// StockLevel reports how many units of a bundle can still be sold.
type StockLevel struct {
	BundleID  string `json:"bundleId"`
	SKU       string `json:"sku"`
	Available int64  `json:"available"`
	InStock   bool   `json:"inStock"`
}
