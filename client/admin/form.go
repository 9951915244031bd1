package admin

import (
	"context"
	"errors"

	"github.com/example/footwear-wholesale/domain/product"
)

// ErrNoPhotos is returned when a form is submitted without any photo.
var ErrNoPhotos = errors.New("at least one photo is required")

// Mutator creates and updates products. catalogclient.Cache satisfies it.
type Mutator interface {
	Create(ctx context.Context, fields *product.Fields) (*product.Product, error)
	Update(ctx context.Context, id string, patch *product.Patch) (*product.Product, error)
}

// Form is the create/edit state of one product. Photos holds the main photo
// first, followed by the additional photos.
type Form struct {
	EditingID        string
	Name             string
	SKU              string
	Category         string
	Description      string
	Price            int
	Sizes            string
	Colors           string
	Status           product.Status
	Season           product.Season
	Gender           product.Gender
	MinOrderQuantity int
	PairsPerBox      int
	Photos           []string
	Comment          string
	IsBestseller     bool
	IsNew            bool
}

// NewForm returns an empty create form with the catalog defaults.
func NewForm() *Form {
	return &Form{
		Status:           product.DefaultStatus,
		Season:           product.DefaultSeason,
		Gender:           product.DefaultGender,
		MinOrderQuantity: product.DefaultMinOrderQuantity,
		PairsPerBox:      product.DefaultPairsPerBox,
	}
}

// EditForm populates a form from p, rebuilding the photo list.
func EditForm(p *product.Product) *Form {
	f := &Form{
		EditingID:        p.ID,
		Name:             p.Name,
		SKU:              p.SKU,
		Category:         p.Category,
		Description:      p.Description,
		Price:            p.Price,
		Sizes:            p.Sizes,
		Colors:           p.Colors,
		Status:           p.Status,
		Season:           p.Season,
		Gender:           p.Gender,
		MinOrderQuantity: p.MinOrderQuantity,
		PairsPerBox:      product.DefaultPairsPerBox,
		Photos:           p.Photos(),
		IsBestseller:     p.IsBestseller,
		IsNew:            p.IsNew,
	}
	if p.PairsPerBox != nil {
		f.PairsPerBox = *p.PairsPerBox
	}
	if p.Comment != nil {
		f.Comment = *p.Comment
	}
	return f
}

// Editing reports whether the form updates an existing product.
func (f *Form) Editing() bool {
	return f.EditingID != ""
}

// AddPhoto appends a photo URL. Empty URLs are ignored.
func (f *Form) AddPhoto(url string) {
	if url != "" {
		f.Photos = append(f.Photos, url)
	}
}

// RemovePhoto drops the photo at index i. Out-of-range indexes are ignored.
func (f *Form) RemovePhoto(i int) {
	if i < 0 || i >= len(f.Photos) {
		return
	}
	f.Photos = append(f.Photos[:i], f.Photos[i+1:]...)
}

// Fields returns the create input.
func (f *Form) Fields() (*product.Fields, error) {
	if len(f.Photos) == 0 {
		return nil, ErrNoPhotos
	}
	fields := &product.Fields{
		Name:             f.Name,
		SKU:              f.SKU,
		Category:         f.Category,
		Description:      f.Description,
		Price:            product.IntPtr(f.Price),
		Sizes:            f.Sizes,
		Colors:           f.Colors,
		Status:           f.Status,
		Season:           f.Season,
		Gender:           f.Gender,
		MainPhoto:        f.Photos[0],
		AdditionalPhotos: append([]string{}, f.Photos[1:]...),
		IsBestseller:     f.IsBestseller,
		IsNew:            f.IsNew,
	}
	if f.MinOrderQuantity > 0 {
		fields.MinOrderQuantity = product.IntPtr(f.MinOrderQuantity)
	}
	if f.PairsPerBox > 0 {
		fields.PairsPerBox = product.IntPtr(f.PairsPerBox)
	}
	if f.Comment != "" {
		fields.Comment = product.StringPtr(f.Comment)
	}
	return fields, nil
}

// Patch returns the update input carrying every field of the form.
func (f *Form) Patch() (*product.Patch, error) {
	if len(f.Photos) == 0 {
		return nil, ErrNoPhotos
	}
	additional := append([]string{}, f.Photos[1:]...)
	status, season, gender := f.Status, f.Season, f.Gender
	patch := &product.Patch{
		Name:             product.StringPtr(f.Name),
		SKU:              product.StringPtr(f.SKU),
		Category:         product.StringPtr(f.Category),
		Description:      product.StringPtr(f.Description),
		Price:            product.IntPtr(f.Price),
		Sizes:            product.StringPtr(f.Sizes),
		Colors:           product.StringPtr(f.Colors),
		MainPhoto:        product.StringPtr(f.Photos[0]),
		AdditionalPhotos: &additional,
		Comment:          product.StringPtr(f.Comment),
		IsBestseller:     product.BoolPtr(f.IsBestseller),
		IsNew:            product.BoolPtr(f.IsNew),
	}
	if status != "" {
		patch.Status = &status
	}
	if season != "" {
		patch.Season = &season
	}
	if gender != "" {
		patch.Gender = &gender
	}
	if f.MinOrderQuantity > 0 {
		patch.MinOrderQuantity = product.IntPtr(f.MinOrderQuantity)
	}
	if f.PairsPerBox > 0 {
		patch.PairsPerBox = product.IntPtr(f.PairsPerBox)
	}
	return patch, nil
}

// Submit creates a product, or updates the one being edited.
func (f *Form) Submit(ctx context.Context, m Mutator) (*product.Product, error) {
	if f.Editing() {
		patch, err := f.Patch()
		if err != nil {
			return nil, err
		}
		return m.Update(ctx, f.EditingID, patch)
	}

	fields, err := f.Fields()
	if err != nil {
		return nil, err
	}
	return m.Create(ctx, fields)
}
