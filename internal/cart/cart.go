// Package cart implements the session-local shopping cart: an id-counted
// selection of menu items that exists only between sign-in and checkout.
package cart

import (
	"sort"

	"github.com/foodkart/backend/internal/catalog"
	"github.com/foodkart/backend/internal/entity"
)

// Cart maps menu item ids to quantities. A quantity is always positive;
// removing the last unit deletes the key, so an absent key and a zero
// quantity are the same thing to every query.
//
// A cart has exactly one logical owner (one client session). Mutations are
// synchronous reactions to that owner's requests, so the type carries no
// locking of its own; concurrent owners must go through Registry.
type Cart struct {
	catalog *catalog.Catalog
	items   map[string]int
}

// Line is one cart entry joined with its menu item.
type Line struct {
	Item     entity.FoodItem
	Quantity int
}

// New returns an empty cart that prices itself against cat.
func New(cat *catalog.Catalog) *Cart {
	return &Cart{
		catalog: cat,
		items:   make(map[string]int),
	}
}

// Add increments the quantity for itemID by one, starting at one if the item
// is not in the cart yet. No upper bound is enforced.
func (c *Cart) Add(itemID string) {
	c.items[itemID]++
}

// Remove decrements the quantity for itemID by one and deletes the entry
// when it would reach zero. Removing an absent item is a no-op.
func (c *Cart) Remove(itemID string) {
	qty, ok := c.items[itemID]
	if !ok {
		return
	}
	if qty > 1 {
		c.items[itemID] = qty - 1
	} else {
		delete(c.items, itemID)
	}
}

// Quantity returns the current quantity for itemID, zero if absent.
func (c *Cart) Quantity(itemID string) int {
	return c.items[itemID]
}

// TotalItems returns the sum of all quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, qty := range c.items {
		total += qty
	}
	return total
}

// TotalAmount returns the sum of unit price times quantity over all entries.
// Entries whose id no longer resolves in the catalog are skipped. The
// catalog is static, so in practice that never happens.
func (c *Cart) TotalAmount() int64 {
	var total int64
	for itemID, qty := range c.items {
		item, ok := c.catalog.Lookup(itemID)
		if !ok {
			continue
		}
		total += item.Price * int64(qty)
	}
	return total
}

// Lines returns the cart joined with the catalog, ordered by item id, for
// building order line items at checkout. Unresolvable ids are skipped.
func (c *Cart) Lines() []Line {
	lines := make([]Line, 0, len(c.items))
	for itemID, qty := range c.items {
		item, ok := c.catalog.Lookup(itemID)
		if !ok {
			continue
		}
		lines = append(lines, Line{Item: item, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Item.ID < lines[j].Item.ID
	})
	return lines
}

// Items returns a copy of the raw id -> quantity mapping.
func (c *Cart) Items() map[string]int {
	out := make(map[string]int, len(c.items))
	for id, qty := range c.items {
		out[id] = qty
	}
	return out
}

// Clear resets the cart to empty. Called after a successful checkout and on
// sign-out.
func (c *Cart) Clear() {
	c.items = make(map[string]int)
}
