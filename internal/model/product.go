package model

import "time"

// Product ids are assigned monotonically by the registry. Amounts are held
// in the smallest currency unit.
type Product struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Seller        string    `db:"seller" json:"seller"`       // seller principal
	SellerName    string    `db:"seller_name" json:"seller_name"`
	Price         int64     `db:"price" json:"price"`         // acquisition price
	SellingPrice  int64     `db:"selling_price" json:"selling_price"`
	TokenURI      string    `db:"token_uri" json:"token_uri"` // opaque metadata pointer
	Stage         Stage     `db:"stage" json:"stage"`
	BatchID       *string   `db:"batch_id" json:"batch_id"`
	BatchPosition *int64    `db:"batch_position" json:"batch_position"`
	Recalled      bool      `db:"recalled" json:"recalled"` // sticky, never cleared
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Shipment rows are append-only; the current shipment is the most recent
// entry for a product.
type Shipment struct {
	ID        int64     `db:"id" json:"id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Sender    string    `db:"sender" json:"sender"`
	Receiver  string    `db:"receiver" json:"receiver"`
	Location  string    `db:"location" json:"location"`
	Stage     Stage     `db:"stage" json:"stage"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
