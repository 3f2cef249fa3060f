package metadata

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource replays a fixed edition, applying the inclusion policy the way
// a real adapter does
type stubSource struct {
	name    string
	edition FieldSet
	result  *SourceResult // overrides edition when set
	calls   int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context, _ string, snapshot RecordSnapshot, policy Policy) SourceResult {
	s.calls++
	if s.result != nil {
		return *s.result
	}
	var fields FieldSet
	for _, f := range s.edition.Fields() {
		if !policy.Includes(snapshot, f) {
			continue
		}
		switch f {
		case FieldTitle:
			fields.Title = s.edition.Title
		case FieldDescription:
			fields.Description = s.edition.Description
		case FieldAuthors:
			fields.Authors = s.edition.Authors
		case FieldPublisher:
			fields.Publisher = s.edition.Publisher
		case FieldPublicationDate:
			fields.PublicationDate = s.edition.PublicationDate
		case FieldCoverImage:
			fields.CoverImage = s.edition.CoverImage
		case FieldWeightKg:
			fields.WeightKg = s.edition.WeightKg
		case FieldListPrice:
			fields.ListPrice = s.edition.ListPrice
		}
	}
	return Ok(fields)
}

func TestIsISBN13(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"9780141036144", true},
		{"9791034732278", true},
		{"5012345678900", false},
		{"", false},
		{"978", true},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, IsISBN13(tt.code))
		})
	}
}

func TestPolicy_Includes(t *testing.T) {
	snapshot := RecordSnapshot{Title: "Existing Title"}

	t.Run("fill empty only never proposes an occupied field", func(t *testing.T) {
		assert.False(t, FillEmptyOnly.Includes(snapshot, FieldTitle))
		assert.True(t, FillEmptyOnly.Includes(snapshot, FieldPublisher))
	})

	t.Run("force overwrite always proposes", func(t *testing.T) {
		assert.True(t, ForceOverwrite.Includes(snapshot, FieldTitle))
		assert.True(t, ForceOverwrite.Includes(snapshot, FieldPublisher))
	})

	t.Run("zero price and weight count as empty", func(t *testing.T) {
		assert.True(t, FillEmptyOnly.Includes(snapshot, FieldListPrice))
		assert.True(t, FillEmptyOnly.Includes(snapshot, FieldWeightKg))

		filled := RecordSnapshot{WeightKg: 0.45, ListPrice: decimal.NewFromInt(25)}
		assert.False(t, FillEmptyOnly.Includes(filled, FieldWeightKg))
		assert.False(t, FillEmptyOnly.Includes(filled, FieldListPrice))
	})
}

func TestRecordSnapshot_Overlay(t *testing.T) {
	snapshot := RecordSnapshot{Title: "Original"}
	overlaid := snapshot.Overlay(FieldSet{
		Publisher:  StringValue("Penguin"),
		CoverImage: []byte{0x1},
	})

	assert.Equal(t, "Original", overlaid.Title)
	assert.Equal(t, "Penguin", overlaid.Publisher)
	assert.True(t, overlaid.HasCoverImage)
	// original snapshot untouched
	assert.Empty(t, snapshot.Publisher)
	assert.False(t, snapshot.HasCoverImage)
}

func TestGapFill(t *testing.T) {
	ctx := context.Background()

	t.Run("first source wins, second fills remaining gaps", func(t *testing.T) {
		a := &stubSource{name: "hardcover", edition: FieldSet{
			Title:     StringValue("Title A"),
			Publisher: StringValue("Publisher A"),
		}}
		b := &stubSource{name: "titlepage", edition: FieldSet{
			Title:   StringValue("Title B"),
			Authors: StringValue("Author B"),
		}}

		outcome := GapFill(ctx, []Source{a, b}, "9780141036144", RecordSnapshot{})

		require.NotNil(t, outcome.Fields.Title)
		assert.Equal(t, "Title A", *outcome.Fields.Title)
		assert.Equal(t, "Publisher A", *outcome.Fields.Publisher)
		assert.Equal(t, "Author B", *outcome.Fields.Authors)
		assert.Equal(t, []string{"hardcover", "titlepage"}, outcome.Contributed())
	})

	t.Run("second source supplies fields the first omits", func(t *testing.T) {
		a := &stubSource{name: "hardcover", edition: FieldSet{Title: StringValue("Title A")}}
		b := &stubSource{name: "titlepage", edition: FieldSet{Publisher: StringValue("Publisher B")}}

		outcome := GapFill(ctx, []Source{a, b}, "9780141036144", RecordSnapshot{})
		assert.Equal(t, "Publisher B", *outcome.Fields.Publisher)
	})

	t.Run("occupied record fields are never proposed", func(t *testing.T) {
		a := &stubSource{name: "hardcover", edition: FieldSet{
			Title:     StringValue("Title A"),
			Publisher: StringValue("Publisher A"),
		}}

		outcome := GapFill(ctx, []Source{a}, "9780141036144", RecordSnapshot{Title: "Kept"})
		assert.Nil(t, outcome.Fields.Title)
		assert.Equal(t, "Publisher A", *outcome.Fields.Publisher)
	})

	t.Run("unavailable source is excluded without aborting the run", func(t *testing.T) {
		down := &SourceResult{Status: StatusUnavailable, Reason: "connection refused"}
		a := &stubSource{name: "hardcover", result: down}
		b := &stubSource{name: "titlepage", edition: FieldSet{Title: StringValue("Title B")}}

		outcome := GapFill(ctx, []Source{a, b}, "9780141036144", RecordSnapshot{})
		assert.Equal(t, "Title B", *outcome.Fields.Title)
		assert.Equal(t, []string{"titlepage"}, outcome.Contributed())
		require.Len(t, outcome.Reports, 2)
		assert.Equal(t, StatusUnavailable, outcome.Reports[0].Status)
		assert.Equal(t, "connection refused", outcome.Reports[0].Reason)
	})
}

func TestPriority(t *testing.T) {
	ctx := context.Background()

	t.Run("earlier listed source wins on collision regardless of the other value", func(t *testing.T) {
		a := &stubSource{name: "hardcover", edition: FieldSet{Title: StringValue("Title A")}}
		b := &stubSource{name: "titlepage", edition: FieldSet{
			Title:     StringValue("Title B"),
			Publisher: StringValue("Publisher B"),
		}}

		outcome := Priority(ctx, []Source{a, b}, "9780141036144", RecordSnapshot{})
		assert.Equal(t, "Title A", *outcome.Fields.Title)
		assert.Equal(t, "Publisher B", *outcome.Fields.Publisher)
	})

	t.Run("sources compute against the original record state", func(t *testing.T) {
		// Both sources see the occupied title; force mode proposes anyway.
		a := &stubSource{name: "hardcover", edition: FieldSet{Title: StringValue("Title A")}}
		b := &stubSource{name: "titlepage", edition: FieldSet{Title: StringValue("Title B")}}

		outcome := Priority(ctx, []Source{a, b}, "9780141036144", RecordSnapshot{Title: "Occupied"})
		assert.Equal(t, "Title A", *outcome.Fields.Title)
	})

	t.Run("not found sources contribute nothing", func(t *testing.T) {
		missing := &SourceResult{Status: StatusNotFound}
		a := &stubSource{name: "hardcover", result: missing}
		b := &stubSource{name: "titlepage", edition: FieldSet{Title: StringValue("Title B")}}

		outcome := Priority(ctx, []Source{a, b}, "9780141036144", RecordSnapshot{})
		assert.Equal(t, "Title B", *outcome.Fields.Title)
		assert.Empty(t, outcome.Reports[0].Reason)
	})
}

func TestMerge(t *testing.T) {
	t.Run("overlay wins on collision", func(t *testing.T) {
		base := FieldSet{Title: StringValue("base"), Authors: StringValue("base authors")}
		overlay := FieldSet{Title: StringValue("overlay")}

		merged := Merge(base, overlay)
		assert.Equal(t, "overlay", *merged.Title)
		assert.Equal(t, "base authors", *merged.Authors)
	})

	t.Run("identical inputs merge identically", func(t *testing.T) {
		base := FieldSet{Title: StringValue("base")}
		overlay := FieldSet{ListPrice: PriceValue(decimal.NewFromInt(25))}

		first := Merge(base, overlay)
		second := Merge(base, overlay)
		assert.Equal(t, first, second)
	})
}

func TestFieldSet_Fields(t *testing.T) {
	fs := FieldSet{
		Title:      StringValue("t"),
		WeightKg:   FloatValue(0.45),
		CoverImage: []byte{0x1},
	}
	assert.Equal(t, []Field{FieldTitle, FieldCoverImage, FieldWeightKg}, fs.Fields())
	assert.False(t, fs.IsEmpty())
	assert.True(t, FieldSet{}.IsEmpty())
}
