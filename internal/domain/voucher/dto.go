package voucher

import "time"

// GenerateRequest creates a batch of voucher codes for one SKU.
type GenerateRequest struct {
	SKUID     string     `json:"skuId" validate:"required,min=1,max=64"`
	Quantity  int        `json:"quantity" validate:"required,gte=1,lte=1000"`
	Credits   int64      `json:"credits" validate:"gte=0,lte=1000000"`
	ProMonths int        `json:"proMonths" validate:"gte=0,lte=36"`
	Source    string     `json:"source,omitempty" validate:"omitempty,max=64"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// GenerateResponse returns plaintext codes exactly once.
type GenerateResponse struct {
	SKUID     string     `json:"skuId"`
	Created   int        `json:"created"`
	Codes     []string   `json:"codes"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// RedeemRequest carries the raw code from the redeemer.
type RedeemRequest struct {
	Code string `json:"code" validate:"required,min=4,max=64"`
}

// RedeemResponse reports the granted rewards.
type RedeemResponse struct {
	SKUID            string     `json:"skuId"`
	CreditsGranted   int64      `json:"creditsGranted"`
	ProMonthsGranted int        `json:"proMonthsGranted"`
	ProUntil         *time.Time `json:"proUntil,omitempty"`
}
