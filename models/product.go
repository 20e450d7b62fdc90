package models

// ProductRecord is one listing item as rendered on a category page.
// Prices are kept as digit strings; numeric parsing is left to consumers.
type ProductRecord struct {
	Sequence      string `json:"sequence"`
	ProductID     string `json:"productId"`
	IsMaxLow      bool   `json:"isMaxLow"`
	LowPrice      string `json:"lowPrice"`
	DeliveryPrice string `json:"deliveryPrice"`
}

// Job is one category page to crawl. CategoryID is empty in single mode.
type Job struct {
	CategoryID string
	URL        string
}
