package models

// UserIngredient is an ingredient the user has on hand. Quantity and unit are
// free-form and may be empty.
type UserIngredient struct {
	Name     string `json:"name" binding:"required"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// DefaultIngredients is the starting pantry for a new workspace.
func DefaultIngredients() []UserIngredient {
	return []UserIngredient{
		{Name: "Tomatoes", Quantity: "2", Unit: ""},
		{Name: "Onion", Quantity: "1", Unit: ""},
		{Name: "Garlic", Quantity: "3", Unit: "cloves"},
		{Name: "Chicken Breast", Quantity: "1", Unit: "lb"},
	}
}
