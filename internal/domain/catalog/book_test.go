package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookworks/backend/internal/domain/metadata"
	"github.com/bookworks/backend/internal/domain/shared"
)

func TestNewBook(t *testing.T) {
	t.Run("creates book with trimmed barcode", func(t *testing.T) {
		book, err := NewBook(" 9780141036144 ")
		require.NoError(t, err)
		assert.Equal(t, "9780141036144", book.ISBN)
		assert.NotEmpty(t, book.ID)
		assert.Equal(t, 1, book.GetVersion())
	})

	t.Run("rejects empty barcode", func(t *testing.T) {
		_, err := NewBook("   ")
		require.Error(t, err)
	})
}

func TestBook_HasISBN(t *testing.T) {
	tests := []struct {
		isbn string
		want bool
	}{
		{"9780141036144", true},
		{"9791034732278", true},
		{"5012345678900", false},
	}
	for _, tt := range tests {
		book := &Book{ISBN: tt.isbn}
		assert.Equal(t, tt.want, book.HasISBN(), tt.isbn)
	}
}

func TestBook_EnsureInternalRef(t *testing.T) {
	t.Run("copies barcode when reference is empty", func(t *testing.T) {
		book := &Book{ISBN: "9780141036144"}
		assert.True(t, book.EnsureInternalRef())
		assert.Equal(t, "9780141036144", book.InternalRef)
	})

	t.Run("leaves an existing reference alone", func(t *testing.T) {
		book := &Book{ISBN: "9780141036144", InternalRef: "BK-42"}
		assert.False(t, book.EnsureInternalRef())
		assert.Equal(t, "BK-42", book.InternalRef)
	})
}

func TestBook_Snapshot(t *testing.T) {
	book := &Book{
		ISBN:       "9780141036144",
		Title:      "Nineteen Eighty-Four",
		CoverImage: []byte{0x89, 0x50},
		WeightKg:   0.45,
		ListPrice:  decimal.NewFromInt(25),
	}

	snap := book.Snapshot()
	assert.Equal(t, "Nineteen Eighty-Four", snap.Title)
	assert.True(t, snap.HasCoverImage)
	assert.False(t, snap.IsEmpty(metadata.FieldTitle))
	assert.True(t, snap.IsEmpty(metadata.FieldPublisher))
	assert.False(t, snap.IsEmpty(metadata.FieldListPrice))
}

func TestBook_ApplyUpdates(t *testing.T) {
	t.Run("applies a sparse field set", func(t *testing.T) {
		book := &Book{BaseAggregateRoot: sharedAggregate(), ISBN: "9780141036144", Title: "Old"}
		price := decimal.NewFromInt(25)

		applied := book.ApplyUpdates(metadata.FieldSet{
			Title:     metadata.StringValue("New Title"),
			Authors:   metadata.StringValue("George Orwell"),
			ListPrice: &price,
		})

		assert.ElementsMatch(t, []metadata.Field{
			metadata.FieldTitle, metadata.FieldAuthors, metadata.FieldListPrice,
		}, applied)
		assert.Equal(t, "New Title", book.Title)
		assert.Equal(t, "George Orwell", book.Authors)
		assert.True(t, book.ListPrice.Equal(price))
		assert.Equal(t, 2, book.GetVersion())
	})

	t.Run("empty set is a no-op", func(t *testing.T) {
		book := &Book{BaseAggregateRoot: sharedAggregate(), ISBN: "9780141036144"}
		applied := book.ApplyUpdates(metadata.FieldSet{})
		assert.Nil(t, applied)
		assert.Equal(t, 1, book.GetVersion())
	})
}

func TestBook_CatalogSearchURL(t *testing.T) {
	book := &Book{ISBN: "9780141036144"}
	assert.Equal(t, "https://hardcover.app/search?q=9780141036144", book.CatalogSearchURL())
}

func sharedAggregate() shared.BaseAggregateRoot {
	return shared.NewBaseAggregateRoot()
}
