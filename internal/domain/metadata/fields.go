package metadata

import (
	"github.com/shopspring/decimal"
)

// Field identifies one book attribute a catalog source can propose a value for.
// The set is closed: parsers never emit fields outside this list.
type Field string

const (
	FieldTitle           Field = "title"
	FieldDescription     Field = "description"
	FieldAuthors         Field = "authors"
	FieldPublisher       Field = "publisher"
	FieldPublicationDate Field = "publication_date"
	FieldCoverImage      Field = "cover_image"
	FieldWeightKg        Field = "weight_kg"
	FieldListPrice       Field = "list_price"
)

// AllFields lists every known field in a stable order
var AllFields = []Field{
	FieldTitle,
	FieldDescription,
	FieldAuthors,
	FieldPublisher,
	FieldPublicationDate,
	FieldCoverImage,
	FieldWeightKg,
	FieldListPrice,
}

// FieldSet is a sparse set of proposed field values produced by one parsing
// step. A nil pointer (or nil slice) means the source did not propose the
// field; absence is a first-class state, not an error.
type FieldSet struct {
	Title           *string
	Description     *string
	Authors         *string
	Publisher       *string
	PublicationDate *string
	CoverImage      []byte
	WeightKg        *float64
	ListPrice       *decimal.Decimal
}

// IsEmpty reports whether the set proposes no fields at all
func (fs FieldSet) IsEmpty() bool {
	return len(fs.Fields()) == 0
}

// Has reports whether the set proposes a value for the given field
func (fs FieldSet) Has(field Field) bool {
	switch field {
	case FieldTitle:
		return fs.Title != nil
	case FieldDescription:
		return fs.Description != nil
	case FieldAuthors:
		return fs.Authors != nil
	case FieldPublisher:
		return fs.Publisher != nil
	case FieldPublicationDate:
		return fs.PublicationDate != nil
	case FieldCoverImage:
		return len(fs.CoverImage) > 0
	case FieldWeightKg:
		return fs.WeightKg != nil
	case FieldListPrice:
		return fs.ListPrice != nil
	default:
		return false
	}
}

// Fields returns the fields the set proposes values for, in stable order
func (fs FieldSet) Fields() []Field {
	var fields []Field
	for _, f := range AllFields {
		if fs.Has(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// Merge combines two field sets right-biased: the overlay's value wins on
// key collision. Neither input is modified.
func Merge(base, overlay FieldSet) FieldSet {
	merged := base
	if overlay.Title != nil {
		merged.Title = overlay.Title
	}
	if overlay.Description != nil {
		merged.Description = overlay.Description
	}
	if overlay.Authors != nil {
		merged.Authors = overlay.Authors
	}
	if overlay.Publisher != nil {
		merged.Publisher = overlay.Publisher
	}
	if overlay.PublicationDate != nil {
		merged.PublicationDate = overlay.PublicationDate
	}
	if len(overlay.CoverImage) > 0 {
		merged.CoverImage = overlay.CoverImage
	}
	if overlay.WeightKg != nil {
		merged.WeightKg = overlay.WeightKg
	}
	if overlay.ListPrice != nil {
		merged.ListPrice = overlay.ListPrice
	}
	return merged
}

// union combines two field sets left-biased: the base's value wins on key
// collision. Used by gap-fill, where an earlier source's contribution must
// not be displaced by a later one.
func union(base, overlay FieldSet) FieldSet {
	return Merge(overlay, base)
}

// String helpers for building sets without taking addresses inline

// StringValue returns a pointer to s, for populating a FieldSet
func StringValue(s string) *string { return &s }

// FloatValue returns a pointer to f, for populating a FieldSet
func FloatValue(f float64) *float64 { return &f }

// PriceValue returns a pointer to d, for populating a FieldSet
func PriceValue(d decimal.Decimal) *decimal.Decimal { return &d }
