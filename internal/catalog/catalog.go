// Package catalog holds the static menu: the immutable reference list of
// items a customer can order.
package catalog

import (
	"github.com/foodkart/backend/internal/entity"
)

// Catalog is an immutable, id-indexed set of menu items.
type Catalog struct {
	items []entity.FoodItem
	byID  map[string]entity.FoodItem
}

// New builds a Catalog from a fixed item list.
func New(items []entity.FoodItem) *Catalog {
	byID := make(map[string]entity.FoodItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return &Catalog{items: items, byID: byID}
}

// Default returns the standard menu.
func Default() *Catalog {
	return New(menu)
}

// Items returns every menu item in display order.
func (c *Catalog) Items() []entity.FoodItem {
	out := make([]entity.FoodItem, len(c.items))
	copy(out, c.items)
	return out
}

// Lookup resolves a menu item by id.
func (c *Catalog) Lookup(id string) (entity.FoodItem, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// Categories returns the distinct category labels in menu order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range c.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	return out
}

var menu = []entity.FoodItem{
	{ID: "1", Name: "Margherita Pizza", Description: "Fresh tomatoes, mozzarella, basil on a crispy crust", Price: 450, Image: "https://images.unsplash.com/photo-1604382355076-af4b0eb60143?w=400&q=80", Category: "Pizza", Rating: 4.8},
	{ID: "2", Name: "Chicken Burger", Description: "Juicy grilled chicken with lettuce, tomato & special sauce", Price: 280, Image: "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=400&q=80", Category: "Burgers", Rating: 4.6},
	{ID: "3", Name: "Pad Thai", Description: "Classic Thai stir-fried noodles with shrimp & peanuts", Price: 350, Image: "https://images.unsplash.com/photo-1559314809-0d155014e29e?w=400&q=80", Category: "Noodles", Rating: 4.7},
	{ID: "4", Name: "Caesar Salad", Description: "Crisp romaine, parmesan, croutons with caesar dressing", Price: 220, Image: "https://images.unsplash.com/photo-1546793665-c74683f339c1?w=400&q=80", Category: "Salads", Rating: 4.5},
	{ID: "5", Name: "Beef Biryani", Description: "Aromatic basmati rice with tender beef & exotic spices", Price: 380, Image: "https://images.unsplash.com/photo-1563379091339-03b21ab4a4f8?w=400&q=80", Category: "Rice", Rating: 4.9},
	{ID: "6", Name: "Sushi Platter", Description: "Assorted fresh sushi rolls with wasabi & ginger", Price: 650, Image: "https://images.unsplash.com/photo-1579871494447-9811cf80d66c?w=400&q=80", Category: "Japanese", Rating: 4.8},
	{ID: "7", Name: "Chocolate Cake", Description: "Rich dark chocolate layers with ganache frosting", Price: 180, Image: "https://images.unsplash.com/photo-1578985545062-69928b1d9587?w=400&q=80", Category: "Desserts", Rating: 4.9},
	{ID: "8", Name: "Mango Smoothie", Description: "Fresh tropical mangoes blended with yogurt", Price: 120, Image: "https://images.unsplash.com/photo-1623065422902-30a2d299bbe4?w=400&q=80", Category: "Drinks", Rating: 4.6},
	{ID: "9", Name: "Pepperoni Pizza", Description: "Classic pepperoni with mozzarella & tomato sauce", Price: 520, Image: "https://images.unsplash.com/photo-1628840042765-356cda07504e?w=400&q=80", Category: "Pizza", Rating: 4.7},
	{ID: "10", Name: "Veggie Wrap", Description: "Grilled vegetables with hummus in a tortilla wrap", Price: 200, Image: "https://images.unsplash.com/photo-1626700051175-6818013e1d4f?w=400&q=80", Category: "Wraps", Rating: 4.4},
	{ID: "11", Name: "Fried Rice", Description: "Wok-tossed rice with vegetables, egg & soy sauce", Price: 250, Image: "https://images.unsplash.com/photo-1603133872878-684f208fb84b?w=400&q=80", Category: "Rice", Rating: 4.5},
	{ID: "12", Name: "Ice Cream Sundae", Description: "Three scoops with chocolate, caramel & whipped cream", Price: 150, Image: "https://images.unsplash.com/photo-1563805042-7684c019e1cb?w=400&q=80", Category: "Desserts", Rating: 4.7},
}
