package domain

// Cart is a visitor's desired quantities keyed by menu item id. It is not an
// order: entries may reference items that have since left the catalog, and
// pricing happens only at materialization time.
//
// Invariant: every present key has quantity >= 1. Keys leave the cart only
// through Remove; Decrement floors at 1.
type Cart struct {
	Lines map[string]int
}

func New() Cart {
	return Cart{Lines: make(map[string]int)}
}

// Add increases the stored quantity by qty, creating the line at zero first.
// No stock check happens here; stale ids are filtered at materialization.
func (c *Cart) Add(itemID string, qty int) {
	if qty < 1 {
		qty = 1
	}
	if c.Lines == nil {
		c.Lines = make(map[string]int)
	}
	c.Lines[itemID] += qty
}

// Remove deletes the line entirely. Missing keys are a silent no-op.
func (c *Cart) Remove(itemID string) {
	delete(c.Lines, itemID)
}

// Increment bumps an existing line by one. It never creates a line.
func (c *Cart) Increment(itemID string) {
	if _, ok := c.Lines[itemID]; ok {
		c.Lines[itemID]++
	}
}

// Decrement lowers an existing line by one, flooring at quantity 1. Removal
// is only ever explicit via Remove.
func (c *Cart) Decrement(itemID string) {
	if q, ok := c.Lines[itemID]; ok {
		c.Lines[itemID] = max(1, q-1)
	}
}

// TotalQuantity is the raw item count, ignoring catalog validity.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, q := range c.Lines {
		total += q
	}
	return total
}

func (c Cart) Empty() bool {
	return len(c.Lines) == 0
}

// ItemIDs returns the key set for a batched catalog lookup.
func (c Cart) ItemIDs() []string {
	ids := make([]string, 0, len(c.Lines))
	for id := range c.Lines {
		ids = append(ids, id)
	}
	return ids
}
