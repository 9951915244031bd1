package product

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a product is not found.
	ErrNotFound = errors.New("product not found")

	// ErrValidation is returned when product fields break a business rule.
	ErrValidation = errors.New("invalid product fields")
)

var validate = validator.New()

// Fields is the input for creating a product.
// Optional fields left empty receive the documented defaults.
type Fields struct {
	Name             string   `json:"name" validate:"required"`
	SKU              string   `json:"sku" validate:"required"`
	Category         string   `json:"category" validate:"required"`
	Description      string   `json:"description" validate:"required"`
	Price            *int     `json:"price" validate:"required,gte=0"`
	Sizes            string   `json:"sizes" validate:"required"`
	Colors           string   `json:"colors" validate:"required"`
	Status           Status   `json:"status,omitempty" validate:"omitempty,oneof=in_stock out_of_stock expected"`
	Season           Season   `json:"season,omitempty" validate:"omitempty,oneof=winter summer all_season"`
	Gender           Gender   `json:"gender,omitempty" validate:"omitempty,oneof=unisex women men children"`
	MinOrderQuantity *int     `json:"min_order_quantity,omitempty" validate:"omitempty,gt=0"`
	PairsPerBox      *int     `json:"pairs_per_box,omitempty" validate:"omitempty,gt=0"`
	MainPhoto        string   `json:"main_photo" validate:"required"`
	AdditionalPhotos []string `json:"additional_photos,omitempty"`
	Comment          *string  `json:"comment,omitempty"`
	IsBestseller     bool     `json:"is_bestseller,omitempty"`
	IsNew            bool     `json:"is_new,omitempty"`
}

// Validate checks required fields and enumerations.
func (f *Fields) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, describe(err))
	}
	return nil
}

// Build validates the fields and returns a new product with a fresh ID and defaults applied.
func (f *Fields) Build() (*Product, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	p := &Product{
		ID:               uuid.New().String(),
		Name:             f.Name,
		SKU:              f.SKU,
		Category:         f.Category,
		Description:      f.Description,
		Price:            *f.Price,
		Sizes:            f.Sizes,
		Colors:           f.Colors,
		Status:           f.Status,
		Season:           f.Season,
		Gender:           f.Gender,
		MinOrderQuantity: DefaultMinOrderQuantity,
		PairsPerBox:      IntPtr(DefaultPairsPerBox),
		MainPhoto:        f.MainPhoto,
		AdditionalPhotos: []string{},
		Comment:          f.Comment,
		IsBestseller:     f.IsBestseller,
		IsNew:            f.IsNew,
	}
	if p.Status == "" {
		p.Status = DefaultStatus
	}
	if p.Season == "" {
		p.Season = DefaultSeason
	}
	if p.Gender == "" {
		p.Gender = DefaultGender
	}
	if f.MinOrderQuantity != nil {
		p.MinOrderQuantity = *f.MinOrderQuantity
	}
	if f.PairsPerBox != nil {
		p.PairsPerBox = IntPtr(*f.PairsPerBox)
	}
	if f.AdditionalPhotos != nil {
		p.AdditionalPhotos = append(p.AdditionalPhotos, f.AdditionalPhotos...)
	}
	return p, nil
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Name             *string   `json:"name,omitempty" validate:"omitempty,min=1"`
	SKU              *string   `json:"sku,omitempty"`
	Category         *string   `json:"category,omitempty"`
	Description      *string   `json:"description,omitempty"`
	Price            *int      `json:"price,omitempty" validate:"omitempty,gte=0"`
	Sizes            *string   `json:"sizes,omitempty"`
	Colors           *string   `json:"colors,omitempty"`
	Status           *Status   `json:"status,omitempty" validate:"omitempty,oneof=in_stock out_of_stock expected"`
	Season           *Season   `json:"season,omitempty" validate:"omitempty,oneof=winter summer all_season"`
	Gender           *Gender   `json:"gender,omitempty" validate:"omitempty,oneof=unisex women men children"`
	MinOrderQuantity *int      `json:"min_order_quantity,omitempty" validate:"omitempty,gt=0"`
	PairsPerBox      *int      `json:"pairs_per_box,omitempty" validate:"omitempty,gt=0"`
	MainPhoto        *string   `json:"main_photo,omitempty"`
	AdditionalPhotos *[]string `json:"additional_photos,omitempty"`
	Comment          *string   `json:"comment,omitempty"`
	IsBestseller     *bool     `json:"is_bestseller,omitempty"`
	IsNew            *bool     `json:"is_new,omitempty"`
}

// Validate checks the supplied fields.
func (p *Patch) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, describe(err))
	}
	return nil
}

// Columns returns the supplied fields keyed by column name.
func (p *Patch) Columns() (map[string]any, error) {
	cols := make(map[string]any)
	setString := func(col string, v *string) {
		if v != nil {
			cols[col] = *v
		}
	}
	setString("name", p.Name)
	setString("sku", p.SKU)
	setString("category", p.Category)
	setString("description", p.Description)
	setString("sizes", p.Sizes)
	setString("colors", p.Colors)
	setString("main_photo", p.MainPhoto)
	setString("comment", p.Comment)

	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.Season != nil {
		cols["season"] = string(*p.Season)
	}
	if p.Gender != nil {
		cols["gender"] = string(*p.Gender)
	}
	if p.MinOrderQuantity != nil {
		cols["min_order_quantity"] = *p.MinOrderQuantity
	}
	if p.PairsPerBox != nil {
		cols["pairs_per_box"] = *p.PairsPerBox
	}
	if p.IsBestseller != nil {
		cols["is_bestseller"] = *p.IsBestseller
	}
	if p.IsNew != nil {
		cols["is_new"] = *p.IsNew
	}
	if p.AdditionalPhotos != nil {
		photos := *p.AdditionalPhotos
		if photos == nil {
			photos = []string{}
		}
		data, err := json.Marshal(photos)
		if err != nil {
			return nil, fmt.Errorf("failed to encode additional photos: %w", err)
		}
		cols["additional_photos"] = string(data)
	}
	return cols, nil
}

// IsEmpty reports whether the patch carries no fields.
func (p *Patch) IsEmpty() bool {
	cols, err := p.Columns()
	return err == nil && len(cols) == 0
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
