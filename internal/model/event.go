package model

// ClaimResolvedEvent is published to kafka for every claim request the batch
// processor resolves, so downstream services can notify the user.
type ClaimResolvedEvent struct {
	RequestID string `json:"request_id"`
	UserID    string `json:"user_id"`
	QuestID   string `json:"quest_id"`
	Status    string `json:"status"`
	TxHash    string `json:"tx_hash,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
