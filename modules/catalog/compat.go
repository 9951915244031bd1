package catalog

import (
	"fmt"
	"sort"

	"github.com/example/footwear-wholesale/domain/product"
	"gorm.io/gorm"
)

// productColumns lists every column of the products table in declaration order.
var productColumns = []string{
	"id", "name", "sku", "category", "description", "price", "sizes", "colors",
	"status", "season", "gender", "min_order_quantity", "pairs_per_box",
	"main_photo", "additional_photos", "comment", "is_bestseller", "is_new",
}

// optionalColumns maps columns that older databases may lack to the default
// applied when reading from such a database.
var optionalColumns = map[string]func(p *product.Product){
	"status":             func(p *product.Product) { p.Status = product.DefaultStatus },
	"season":             func(p *product.Product) { p.Season = product.DefaultSeason },
	"gender":             func(p *product.Product) { p.Gender = product.DefaultGender },
	"min_order_quantity": func(p *product.Product) { p.MinOrderQuantity = product.DefaultMinOrderQuantity },
	"pairs_per_box":      func(p *product.Product) { p.PairsPerBox = product.IntPtr(product.DefaultPairsPerBox) },
	"additional_photos":  func(p *product.Product) { p.AdditionalPhotos = []string{} },
	"comment":            func(p *product.Product) { p.Comment = nil },
	"is_bestseller":      func(p *product.Product) { p.IsBestseller = false },
	"is_new":             func(p *product.Product) { p.IsNew = false },
}

// Compat adapts queries to the columns the live products table actually has.
type Compat struct {
	missing  []string
	selected []string
}

// DetectCompat inspects the products table. When the table does not exist yet
// every column is assumed present.
func DetectCompat(db *gorm.DB) *Compat {
	c := &Compat{}
	m := db.Migrator()
	if !m.HasTable(&product.Product{}) {
		c.selected = productColumns
		return c
	}

	for _, col := range productColumns {
		if _, optional := optionalColumns[col]; optional && !m.HasColumn(&product.Product{}, col) {
			c.missing = append(c.missing, col)
			continue
		}
		c.selected = append(c.selected, col)
	}
	sort.Strings(c.missing)
	return c
}

// Missing returns the optional columns absent from the table.
func (c *Compat) Missing() []string {
	return c.missing
}

// Legacy reports whether any optional column is absent.
func (c *Compat) Legacy() bool {
	return len(c.missing) > 0
}

// Read restricts a query to the columns that exist.
func (c *Compat) Read(db *gorm.DB) *gorm.DB {
	if !c.Legacy() {
		return db
	}
	return db.Select(c.selected)
}

// Write omits absent columns from an INSERT.
func (c *Compat) Write(db *gorm.DB) *gorm.DB {
	if !c.Legacy() {
		return db
	}
	return db.Omit(c.missing...)
}

// DropMissing removes absent columns from an update set.
func (c *Compat) DropMissing(cols map[string]any) {
	for _, col := range c.missing {
		delete(cols, col)
	}
}

// Fill applies defaults for absent columns and normalizes nil photo lists.
func (c *Compat) Fill(p *product.Product) {
	for _, col := range c.missing {
		optionalColumns[col](p)
	}
	if p.AdditionalPhotos == nil {
		p.AdditionalPhotos = []string{}
	}
}

// String describes the detected layout for logs.
func (c *Compat) String() string {
	if !c.Legacy() {
		return "current"
	}
	return fmt.Sprintf("legacy (missing %v)", c.missing)
}
