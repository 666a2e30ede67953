package units

// Unit represents a unit of measure (pièce, kg, lot).
type Unit struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
