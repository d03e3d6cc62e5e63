package dto

// CreateInteractionRequest is the generic POST /interactions intake body.
type CreateInteractionRequest struct {
	SessionID       string   `json:"sessionId"`
	InteractionType string   `json:"interactionType"`
	ProductID       string   `json:"productId"`
	SearchQuery     string   `json:"searchQuery"`
	TimeSpend       *float64 `json:"timeSpend"`
}

type TrackClickRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

type TrackTimeSpentRequest struct {
	SessionID string   `json:"sessionId" binding:"required"`
	TimeSpend *float64 `json:"timeSpend" binding:"required"`
}
