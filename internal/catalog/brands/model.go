package brands

// Brand represents a product brand
type Brand struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
