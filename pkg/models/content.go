package models

// MediaType values accepted by the catalog.
const (
	MediaTypeMovie  = "movie"
	MediaTypeSeries = "series"
)

// ContentItem is one catalog entry. Items are immutable once loaded into an
// index generation and are replaced wholesale on reindex.
type ContentItem struct {
	ID       string   `json:"id" db:"id" validate:"required"`
	Title    string   `json:"title" db:"title" validate:"required,min=1,max=255"`
	Synopsis string   `json:"synopsis" db:"synopsis"`
	Genres   []string `json:"genres" db:"genres"`
	Rating   float64  `json:"rating" db:"rating" validate:"min=0,max=10"`
	Year     int      `json:"year" db:"year"`
	Type     string   `json:"type" db:"type" validate:"required,oneof=movie series"`
}

// ContentIngestionRequest is the payload accepted by the catalog ingestion
// endpoint before it is published to the message bus.
type ContentIngestionRequest struct {
	ID       string   `json:"id" validate:"required"`
	Title    string   `json:"title" validate:"required,min=1,max=255"`
	Synopsis string   `json:"synopsis"`
	Genres   []string `json:"genres"`
	Rating   float64  `json:"rating" validate:"min=0,max=10"`
	Year     int      `json:"year"`
	Type     string   `json:"type" validate:"required,oneof=movie series"`
}
