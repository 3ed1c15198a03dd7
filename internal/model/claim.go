package model

type ClaimRewardRequest struct {
	QuestID string `json:"quest_id"`
}

type ClaimRewardResponse struct {
	ID string `json:"id"`
}

type GetClaimRequestRequest struct {
	ID string `json:"id"`
}

type GetClaimRequestResponse ClaimRequest

type GetMyClaimRequestsRequest struct{}

type GetMyClaimRequestsResponse struct {
	ClaimRequests []ClaimRequest `json:"claim_requests"`
}

type ClaimRequest struct {
	ID        string `json:"id"`
	QuestID   string `json:"quest_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	Log       string `json:"log"`
	TxHash    string `json:"tx_hash"`
	CreatedAt string `json:"created_at"`
}

// ClaimMessage is the queue payload pushed by intake and consumed by the
// batch processor.
type ClaimMessage struct {
	RequestID string `json:"request_id"`
	UserID    string `json:"user_id"`
	QuestID   string `json:"quest_id"`
	ChainID   string `json:"chain_id"`
}
