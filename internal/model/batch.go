package model

// Batch groups products created together. Membership is fixed at creation;
// member order is the input order, recorded on each product row.
type Batch struct {
	BaseModel
	Seller string `db:"seller" json:"seller"`
	Size   int64  `db:"size" json:"size"`
}
