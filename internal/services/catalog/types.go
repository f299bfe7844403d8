package catalog

import "time"

const (
	// OwnerMetadataKey tags a product with the recipient account it pays out to.
	OwnerMetadataKey    = "recipient_account_id"
	metaCreatedByUserID = "created_by_user_id"

	DefaultListLimit = 10
	MaxListLimit     = 100
)

// NewProduct is the input of CreateProduct.
type NewProduct struct {
	Name                 string
	Description          string
	UnitAmountMinorUnits int64
	Currency             string
	OwnerAccountID       string
	CreatedByUserID      uint
}

type Product struct {
	ProductID            string    `json:"productId"`
	PriceRef             string    `json:"priceRef"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	UnitAmountMinorUnits int64     `json:"unitAmountMinorUnits"`
	CurrencyCode         string    `json:"currencyCode"`
	DisplayPrice         string    `json:"displayPrice"`
	OwnerAccountID       string    `json:"ownerAccountId"`
	CreatedAt            time.Time `json:"createdAt"`
}

type ListFilter struct {
	OwnerAccountID string
	Limit          int
}

type ProductList struct {
	Products []Product `json:"products"`
	HasMore  bool      `json:"hasMore"`
}
