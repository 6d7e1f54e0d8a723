package model

// Food is a single menu entry as stored by the remote foods resource.
type Food struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// FoodDraft carries the user-editable fields of a Food.
type FoodDraft struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// Merge returns f with every draft field applied. ID and Available are kept.
func (f Food) Merge(d FoodDraft) Food {
	f.Name = d.Name
	f.Image = d.Image
	f.Price = d.Price
	f.Description = d.Description
	return f
}
