package model

// ReturnRequest tracks the return/recall sub-state machine:
// None -> Requested -> Approved(Returned), or (any) -> Recalled directly.
// At most one open (unapproved, non-recall) request exists per product.
type ReturnRequest struct {
	BaseModel
	ProductID   int64  `db:"product_id" json:"product_id"`
	RequestedBy string `db:"requested_by" json:"requested_by"`
	Reason      string `db:"reason" json:"reason"`
	Approved    bool   `db:"approved" json:"approved"`
	IsRecall    bool   `db:"is_recall" json:"is_recall"`
}
