package dto

type CreateProductInput struct {
	Name         string
	SellerName   string
	Price        int64
	SellingPrice int64
	TokenURI     string
}
