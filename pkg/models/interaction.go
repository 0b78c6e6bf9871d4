package models

// InteractionRecord is one explicit rating event. Multiple records per
// (user, content) pair are permitted; the collaborative matrix keeps the last
// one seen. Valid ratings start at 1 so that 0 can act as the "no signal"
// sentinel in the matrix.
type InteractionRecord struct {
	UserID    string  `json:"user_id" db:"user_id" validate:"required"`
	ContentID string  `json:"content_id" db:"content_id" validate:"required"`
	Rating    float64 `json:"rating" db:"rating" validate:"min=1,max=5"`
	WatchTime int     `json:"watch_time" db:"watch_time"` // seconds
}
