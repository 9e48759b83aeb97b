package model

// CartLine references a product by id. Quantity is always >= 1.
type CartLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// FindLine returns the index of the line for productID, or -1
func FindLine(lines []CartLine, productID int) int {
	for i := range lines {
		if lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
