package menu

// Category is one menu section, immutable for the duration of a call.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Active       bool   `json:"is_active"`
	DisplayOrder int    `json:"display_order"`
}

// Item is one orderable catalog entry.
type Item struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Price           float64 `json:"price"`
	CategoryID      string  `json:"category_id"`
	Available       bool    `json:"is_available"`
	PrepTimeMinutes int     `json:"preparation_time"`
}

// Snapshot is the read-only catalog view a call works against. It is loaded
// once per call (or served from the shared cache) and never mutated.
type Snapshot struct {
	Categories []Category
	Items      []Item
}

// ItemsInCategory returns the available items belonging to a category.
func (s *Snapshot) ItemsInCategory(categoryID string) []Item {
	var out []Item
	for _, item := range s.Items {
		if item.CategoryID == categoryID && item.Available {
			out = append(out, item)
		}
	}
	return out
}

// ActiveCategories returns the active categories in display order as listed.
func (s *Snapshot) ActiveCategories() []Category {
	var out []Category
	for _, cat := range s.Categories {
		if cat.Active {
			out = append(out, cat)
		}
	}
	return out
}
