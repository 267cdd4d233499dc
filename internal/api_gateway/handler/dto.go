package handler

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	TransactionID     string  `json:"transaction_id,omitempty"`
	Category          string  `json:"category"`
	Amount            float64 `json:"amount"`
	Fee               float64 `json:"fee"`
	Sender            string  `json:"sender,omitempty"`
	Receiver          string  `json:"receiver,omitempty"`
	OccurredAt        string  `json:"occurred_at"`
	Status            string  `json:"status"`
	Description       string  `json:"description"`
	TimestampInferred bool    `json:"timestamp_inferred,omitempty"`
}

// TransactionListResponse represents a page of transactions in API responses
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Page         int                   `json:"page"`
	PerPage      int                   `json:"per_page"`
	Count        int                   `json:"count"`
}

// QuarantineRecordResponse represents a quarantined message in API responses
type QuarantineRecordResponse struct {
	ID            string `json:"id"`
	RawBody       string `json:"raw_body"`
	Reason        string `json:"reason"`
	QuarantinedAt string `json:"quarantined_at"`
	ResolvedAt    string `json:"resolved_at,omitempty"`
}

// QuarantineListResponse represents quarantine records plus the total count
type QuarantineListResponse struct {
	Records []QuarantineRecordResponse `json:"records"`
	Total   int64                      `json:"total"`
}

// TransactionFilterParams represents filter query parameters for list and
// export endpoints
type TransactionFilterParams struct {
	Category  string  `form:"category"`
	Status    string  `form:"status"`
	StartDate string  `form:"start_date"` // YYYY-MM-DD
	EndDate   string  `form:"end_date"`   // YYYY-MM-DD
	MinAmount float64 `form:"min_amount" binding:"min=0"`
	MaxAmount float64 `form:"max_amount" binding:"min=0"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}
