// Package product provides the catalog entity shared by the server modules and the client packages.
package product

// Status is the availability of a product.
type Status string

// Availability values.
const (
	StatusInStock    Status = "in_stock"
	StatusOutOfStock Status = "out_of_stock"
	StatusExpected   Status = "expected"
)

// Season is the season a product is sold for.
type Season string

// Season values. SeasonAll matches every season filter.
const (
	SeasonWinter Season = "winter"
	SeasonSummer Season = "summer"
	SeasonAll    Season = "all_season"
)

// Gender is the target audience of a product.
type Gender string

// Gender values. GenderUnisex matches every gender filter.
const (
	GenderUnisex   Gender = "unisex"
	GenderWomen    Gender = "women"
	GenderMen      Gender = "men"
	GenderChildren Gender = "children"
)

// Defaults applied to optional fields on create.
const (
	DefaultStatus           = StatusInStock
	DefaultSeason           = SeasonAll
	DefaultGender           = GenderUnisex
	DefaultMinOrderQuantity = 6
	DefaultPairsPerBox      = 12
)

// Product represents one footwear model in the catalog.
type Product struct {
	ID               string   `gorm:"primarykey;size:36" json:"id"`
	Name             string   `gorm:"size:255;not null" json:"name"`
	SKU              string   `gorm:"column:sku;size:100" json:"sku"`
	Category         string   `gorm:"size:100" json:"category"`
	Description      string   `gorm:"type:text" json:"description"`
	Price            int      `gorm:"not null" json:"price"`
	Sizes            string   `gorm:"size:255" json:"sizes"`
	Colors           string   `gorm:"size:255" json:"colors"`
	Status           Status   `gorm:"size:20;default:in_stock" json:"status"`
	Season           Season   `gorm:"size:20;default:all_season" json:"season"`
	Gender           Gender   `gorm:"size:20;default:unisex" json:"gender"`
	MinOrderQuantity int      `gorm:"default:6" json:"min_order_quantity"`
	PairsPerBox      *int     `gorm:"default:12" json:"pairs_per_box"`
	MainPhoto        string   `gorm:"type:text" json:"main_photo"`
	AdditionalPhotos []string `gorm:"type:text;serializer:json" json:"additional_photos"`
	Comment          *string  `gorm:"type:text" json:"comment,omitempty"`
	IsBestseller     bool     `gorm:"default:false" json:"is_bestseller"`
	IsNew            bool     `gorm:"default:false" json:"is_new"`
}

// TableName returns the table name for Product model.
func (Product) TableName() string {
	return "products"
}

// Photos returns the main photo followed by the additional photos, skipping empty entries.
func (p *Product) Photos() []string {
	photos := make([]string, 0, 1+len(p.AdditionalPhotos))
	if p.MainPhoto != "" {
		photos = append(photos, p.MainPhoto)
	}
	for _, u := range p.AdditionalPhotos {
		if u != "" {
			photos = append(photos, u)
		}
	}
	return photos
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool { return &v }
