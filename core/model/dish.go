package model

// Category tags a dish (egg, fish, beef...). The set of categories is
// defined by the catalogue.
type Category string

// Dish is an entry of the catalogue. Names are unique within a catalogue.
type Dish struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// CountByCategory returns the number of dishes per category.
func CountByCategory(dishes []Dish) map[Category]int {
	counts := make(map[Category]int)
	for _, d := range dishes {
		counts[d.Category]++
	}
	return counts
}
