package models

import "time"

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryInput is the payload for creating a category.
type CategoryInput struct {
	Name    string `validate:"notblank"`
	Type    string `validate:"required"`
	Balance float64
}

// CategoryUpdate is a partial update. Nil fields are left as they are; id
// and createdAt cannot be changed.
type CategoryUpdate struct {
	Name    *string
	Type    *string
	Balance *float64
}
