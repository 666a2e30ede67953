package products

import "time"

// Product represents a catalog product available for sale or rental.
type Product struct {
	ID               int64     `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	BarcodeSymbology string    `json:"barcodeSymbology"`
	CategoryID       int64     `json:"categoryId"`
	BrandID          int64     `json:"brandId,omitempty"`
	UnitID           int64     `json:"unitId"`
	Cost             float64   `json:"cost"`
	Price            float64   `json:"price"`
	Stock            int       `json:"stock"`
	StockAlert       int       `json:"stockAlert"`
	Description      string    `json:"description,omitempty"`
	ImagePath        string    `json:"imagePath,omitempty"`
	ForSale          bool      `json:"forSale"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
