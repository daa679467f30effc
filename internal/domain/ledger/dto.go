package ledger

// AdjustRequest applies a signed credit delta to a user.
type AdjustRequest struct {
	SteamID string `json:"steamId" validate:"required,steamid"`
	Delta   int64  `json:"delta" validate:"required"`
	Reason  string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// GrantRequest adds credits to a user.
type GrantRequest struct {
	SteamID string `json:"steamId" validate:"required,steamid"`
	Amount  int64  `json:"amount" validate:"required,gte=1,lte=1000000"`
	Reason  string `json:"reason" validate:"required,min=3,max=500"`
}

// SetBalanceRequest moves a user's balance to an absolute value.
type SetBalanceRequest struct {
	SteamID string `json:"steamId" validate:"required,steamid"`
	Balance int64  `json:"balance" validate:"gte=0"`
	Reason  string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// RollbackRequest compensates a prior ledger entry.
type RollbackRequest struct {
	SteamID      string `json:"steamId" validate:"required,steamid"`
	EntryID      string `json:"entryId" validate:"required,uuid"`
	ApplyBalance *bool  `json:"applyBalance,omitempty"`
	Reason       string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// BalanceResponse is the shared shape for balance-changing admin operations.
type BalanceResponse struct {
	SteamID string `json:"steamId"`
	Balance int64  `json:"balance"`
	Delta   int64  `json:"delta"`
}

// RollbackResponse reports the outcome of a rollback.
type RollbackResponse struct {
	SteamID         string `json:"steamId"`
	Balance         int64  `json:"balance"`
	RolledBackDelta int64  `json:"rolledBackDelta"`
}
