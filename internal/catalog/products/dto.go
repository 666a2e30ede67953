package products

// ProductForm is the create/update payload. It arrives either as JSON or as
// multipart form fields when an image accompanies the product.
type ProductForm struct {
	Code             string  `json:"code" validate:"required"`
	Name             string  `json:"name" validate:"required"`
	BarcodeSymbology string  `json:"barcodeSymbology" validate:"omitempty,oneof=CODE128 CODE39 EAN13 EAN8 UPC"`
	CategoryID       int64   `json:"categoryId" validate:"required,gt=0"`
	BrandID          int64   `json:"brandId" validate:"omitempty,gt=0"`
	UnitID           int64   `json:"unitId" validate:"required,gt=0"`
	Cost             float64 `json:"cost" validate:"gte=0"`
	Price            float64 `json:"price" validate:"gte=0"`
	Stock            int     `json:"stock" validate:"gte=0"`
	StockAlert       int     `json:"stockAlert" validate:"gte=0"`
	Description      string  `json:"description"`
	ForSale          bool    `json:"forSale"`
}

func (f ProductForm) toProduct() Product {
	return Product{
		Code:             f.Code,
		Name:             f.Name,
		BarcodeSymbology: f.BarcodeSymbology,
		CategoryID:       f.CategoryID,
		BrandID:          f.BrandID,
		UnitID:           f.UnitID,
		Cost:             f.Cost,
		Price:            f.Price,
		Stock:            f.Stock,
		StockAlert:       f.StockAlert,
		Description:      f.Description,
		ForSale:          f.ForSale,
	}
}
