package model

import "time"

// EscrowEntry holds the funds for one product. The amount is either zero
// or exactly the product's selling price; there are no partial balances.
type EscrowEntry struct {
	ProductID int64     `db:"product_id" json:"product_id"`
	Amount    int64     `db:"amount" json:"amount"`
	Payer     string    `db:"payer" json:"payer"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SellerCredit accumulates released escrow per seller principal.
type SellerCredit struct {
	Seller    string    `db:"seller" json:"seller"`
	Amount    int64     `db:"amount" json:"amount"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
