package menu

import "context"

// StaticSource serves a fixed catalog. Development mode and tests use it in
// place of the menu collaborator.
type StaticSource struct {
	Categories []Category
	Items      []Item
}

func (s *StaticSource) FetchCategories(ctx context.Context) ([]Category, error) {
	return s.Categories, nil
}

func (s *StaticSource) FetchItems(ctx context.Context) ([]Item, error) {
	return s.Items, nil
}

// DefaultStaticSource returns the built-in room service menu used when no
// backend is configured.
func DefaultStaticSource() *StaticSource {
	categories := []Category{
		{ID: "cat-breakfast", Name: "Breakfast", Description: "Fresh breakfast options, available 24/7", Active: true, DisplayOrder: 1},
		{ID: "cat-appetizers", Name: "Appetizers", Description: "Light bites and starters", Active: true, DisplayOrder: 2},
		{ID: "cat-salads", Name: "Salads", Description: "Fresh salads made with premium ingredients", Active: true, DisplayOrder: 3},
		{ID: "cat-mains", Name: "Main Courses", Description: "Hearty entrees", Active: true, DisplayOrder: 4},
		{ID: "cat-desserts", Name: "Desserts", Description: "Sweet treats", Active: true, DisplayOrder: 5},
		{ID: "cat-beverages", Name: "Beverages", Description: "Hot and cold drinks", Active: true, DisplayOrder: 6},
	}
	items := []Item{
		{ID: "item-continental", Name: "Continental Breakfast", Description: "Fresh croissants, seasonal fruit, yogurt, orange juice, and coffee", Price: 18.50, CategoryID: "cat-breakfast", Available: true, PrepTimeMinutes: 15},
		{ID: "item-american", Name: "American Breakfast", Description: "Two eggs your way, bacon or sausage, hash browns, toast, and coffee", Price: 22.00, CategoryID: "cat-breakfast", Available: true, PrepTimeMinutes: 20},
		{ID: "item-avocado-toast", Name: "Avocado Toast", Description: "Smashed avocado on sourdough with cherry tomatoes and feta", Price: 16.00, CategoryID: "cat-breakfast", Available: true, PrepTimeMinutes: 10},
		{ID: "item-pancakes", Name: "Pancakes", Description: "Three fluffy pancakes with maple syrup and butter", Price: 14.50, CategoryID: "cat-breakfast", Available: true, PrepTimeMinutes: 15},
		{ID: "item-oatmeal", Name: "Oatmeal Bowl", Description: "Steel-cut oats with berries, nuts, and honey", Price: 12.00, CategoryID: "cat-breakfast", Available: true, PrepTimeMinutes: 10},
		{ID: "item-shrimp", Name: "Shrimp Cocktail", Description: "Five jumbo shrimp with cocktail sauce and lemon", Price: 19.00, CategoryID: "cat-appetizers", Available: true, PrepTimeMinutes: 10},
		{ID: "item-wings", Name: "Buffalo Wings", Description: "Eight crispy wings with buffalo sauce and blue cheese dip", Price: 16.50, CategoryID: "cat-appetizers", Available: true, PrepTimeMinutes: 20},
		{ID: "item-hummus", Name: "Hummus Plate", Description: "House-made hummus with fresh vegetables and pita bread", Price: 13.00, CategoryID: "cat-appetizers", Available: true, PrepTimeMinutes: 5},
		{ID: "item-caesar", Name: "Caesar Salad", Description: "Romaine lettuce, parmesan, croutons, and Caesar dressing", Price: 14.00, CategoryID: "cat-salads", Available: true, PrepTimeMinutes: 8},
		{ID: "item-chicken-caesar", Name: "Grilled Chicken Caesar", Description: "Classic Caesar salad topped with grilled chicken breast", Price: 18.50, CategoryID: "cat-salads", Available: true, PrepTimeMinutes: 12},
		{ID: "item-salmon", Name: "Grilled Salmon", Description: "Atlantic salmon with roasted vegetables and lemon butter", Price: 32.00, CategoryID: "cat-mains", Available: true, PrepTimeMinutes: 25},
		{ID: "item-steak", Name: "New York Strip Steak", Description: "12oz strip steak with mashed potatoes and asparagus", Price: 42.00, CategoryID: "cat-mains", Available: true, PrepTimeMinutes: 30},
		{ID: "item-chocolate-cake", Name: "Chocolate Cake", Description: "Rich chocolate layer cake with vanilla ice cream", Price: 11.00, CategoryID: "cat-desserts", Available: true, PrepTimeMinutes: 5},
		{ID: "item-cheesecake", Name: "New York Cheesecake", Description: "Classic cheesecake with berry compote", Price: 10.50, CategoryID: "cat-desserts", Available: true, PrepTimeMinutes: 5},
		{ID: "item-coffee", Name: "Fresh Brewed Coffee", Description: "Pot of locally roasted coffee", Price: 6.00, CategoryID: "cat-beverages", Available: true, PrepTimeMinutes: 5},
		{ID: "item-orange-juice", Name: "Fresh Orange Juice", Description: "Freshly squeezed orange juice", Price: 7.00, CategoryID: "cat-beverages", Available: true, PrepTimeMinutes: 5},
	}
	return &StaticSource{Categories: categories, Items: items}
}
