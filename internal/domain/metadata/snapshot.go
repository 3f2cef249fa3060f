package metadata

import (
	"github.com/shopspring/decimal"
)

// RecordSnapshot is a read-only view of the target record's current field
// values, used for emptiness checks under the fill-empty-only policy. The
// live record is never consulted directly: orchestrations thread snapshots
// through each source step, so the merge stays a pure function of its inputs.
type RecordSnapshot struct {
	Title           string
	Description     string
	Authors         string
	Publisher       string
	PublicationDate string
	HasCoverImage   bool
	WeightKg        float64
	ListPrice       decimal.Decimal
}

// IsEmpty reports whether the record currently has no value for the field
func (s RecordSnapshot) IsEmpty(field Field) bool {
	switch field {
	case FieldTitle:
		return s.Title == ""
	case FieldDescription:
		return s.Description == ""
	case FieldAuthors:
		return s.Authors == ""
	case FieldPublisher:
		return s.Publisher == ""
	case FieldPublicationDate:
		return s.PublicationDate == ""
	case FieldCoverImage:
		return !s.HasCoverImage
	case FieldWeightKg:
		return s.WeightKg == 0
	case FieldListPrice:
		return s.ListPrice.IsZero()
	default:
		return true
	}
}

// Overlay returns a copy of the snapshot with the proposed values applied on
// top. Gap-fill orchestration overlays each source's contribution before the
// next source runs, so later emptiness checks see earlier contributions
// without mutating the real record.
func (s RecordSnapshot) Overlay(fs FieldSet) RecordSnapshot {
	next := s
	if fs.Title != nil {
		next.Title = *fs.Title
	}
	if fs.Description != nil {
		next.Description = *fs.Description
	}
	if fs.Authors != nil {
		next.Authors = *fs.Authors
	}
	if fs.Publisher != nil {
		next.Publisher = *fs.Publisher
	}
	if fs.PublicationDate != nil {
		next.PublicationDate = *fs.PublicationDate
	}
	if len(fs.CoverImage) > 0 {
		next.HasCoverImage = true
	}
	if fs.WeightKg != nil {
		next.WeightKg = *fs.WeightKg
	}
	if fs.ListPrice != nil {
		next.ListPrice = *fs.ListPrice
	}
	return next
}

// Policy controls whether a source's value may displace existing record data
type Policy string

const (
	// FillEmptyOnly proposes a field only when the record's current value is empty
	FillEmptyOnly Policy = "fill_empty_only"
	// ForceOverwrite proposes a field whenever the source has a value for it
	ForceOverwrite Policy = "force_overwrite"
)

// Includes reports whether a value for the field may be proposed under the
// policy given the record snapshot
func (p Policy) Includes(snapshot RecordSnapshot, field Field) bool {
	if p == ForceOverwrite {
		return true
	}
	return snapshot.IsEmpty(field)
}
