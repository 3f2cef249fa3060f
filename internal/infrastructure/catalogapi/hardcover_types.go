package catalogapi

import (
	"encoding/json"
)

// hardcoverResponse is the GraphQL envelope. A populated Errors slice means
// the query failed server-side, which this client treats as "no edition
// found" rather than a hard failure.
type hardcoverResponse struct {
	Data   *hardcoverData   `json:"data"`
	Errors []hardcoverError `json:"errors"`
}

type hardcoverError struct {
	Message string `json:"message"`
}

type hardcoverData struct {
	Editions []hardcoverEdition `json:"editions"`
}

// hardcoverEdition is one edition object. Every field is optional; the
// catalog fills what it knows. Publisher and CachedImage are kept raw
// because the API has been observed to return plain strings where objects
// are expected; a non-object value is treated as absent.
type hardcoverEdition struct {
	ISBN13      string          `json:"isbn_13"`
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle"`
	ReleaseDate string          `json:"release_date"`
	Publisher   json.RawMessage `json:"publisher"`
	CachedImage json.RawMessage `json:"cached_image"`
	Book        *hardcoverBook  `json:"book"`
}

type hardcoverBook struct {
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	Contributions []hardcoverContribution `json:"contributions"`
}

type hardcoverContribution struct {
	Contribution string           `json:"contribution"`
	Author       *hardcoverAuthor `json:"author"`
}

type hardcoverAuthor struct {
	Name string `json:"name"`
}

type hardcoverPublisher struct {
	Name string `json:"name"`
}

type hardcoverImage struct {
	URL string `json:"url"`
}

// publisherName decodes the raw publisher value, returning empty when the
// value is missing or not an object
func (e *hardcoverEdition) publisherName() string {
	if len(e.Publisher) == 0 {
		return ""
	}
	var publisher hardcoverPublisher
	if err := json.Unmarshal(e.Publisher, &publisher); err != nil {
		return ""
	}
	return publisher.Name
}

// imageURL decodes the raw cached-image value, returning empty when the
// value is missing or not an object
func (e *hardcoverEdition) imageURL() string {
	if len(e.CachedImage) == 0 {
		return ""
	}
	var image hardcoverImage
	if err := json.Unmarshal(e.CachedImage, &image); err != nil {
		return ""
	}
	return image.URL
}
