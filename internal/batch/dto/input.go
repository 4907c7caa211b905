package dto

// CreateBatchInput carries parallel arrays in member order. All slices
// must have equal length.
type CreateBatchInput struct {
	Names         []string
	SellerName    string
	Prices        []int64
	TokenURIs     []string
	SellingPrices []int64
}
