package model

// Product represents a catalog entry. Price and Stock are whole currency units and units on hand.
type Product struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Format      string `json:"format,omitempty" yaml:"format"`
	Description string `json:"description,omitempty" yaml:"description"`
	Price       int    `json:"price" yaml:"price"`
	Stock       int    `json:"stock" yaml:"stock"`
	Image       string `json:"image,omitempty" yaml:"image"`
}

// FindProduct returns the index of the product with the given id, or -1
func FindProduct(products []Product, id int) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}

// MaxProductID returns the highest id in the list, 0 for an empty list
func MaxProductID(products []Product) int {
	maxID := 0
	for _, p := range products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID
}
