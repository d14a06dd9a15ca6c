package handler

// AccountResponse represents an account in API responses. Amounts carry four decimal places.
type AccountResponse struct {
	Client     uint16 `json:"client"`
	Available  string `json:"available"`
	Held       string `json:"held"`
	Total      string `json:"total"`
	Locked     bool   `json:"locked"`
	LockReason string `json:"lock_reason,omitempty"`
}

// AccountListResponse represents a list of accounts in API responses
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// RejectionResponse represents a journaled rejection in API responses
type RejectionResponse struct {
	RunID      string `json:"run_id"`
	Stage      string `json:"stage"`
	Kind       string `json:"kind"`
	Type       string `json:"type"`
	Tx         uint32 `json:"tx"`
	Client     uint16 `json:"client"`
	Reason     string `json:"reason"`
	RecordedAt string `json:"recorded_at"`
}

// RejectionListResponse represents a page of rejections in API responses
type RejectionListResponse struct {
	Rejections []RejectionResponse `json:"rejections"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=50" binding:"min=1,max=500"`
}
