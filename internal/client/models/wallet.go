package models

import "time"

// Wallet is a cash account whose balance moves with recorded movements.
type Wallet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
}

type WalletInput struct {
	Name    string  `validate:"notblank"`
	Balance float64 `validate:"gte=0"`
}
