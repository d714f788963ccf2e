package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PenaltyEntryDTO struct {
	Kind        string `json:"kind"`
	ReferenceID string `json:"reference_id"`
	Points      int    `json:"points"`
	AppliedAt   string `json:"applied_at"`
}

type UserReputationDTO struct {
	UserID          string            `json:"user_id"`
	ReputationScore int               `json:"reputation_score"`
	Tier            string            `json:"tier"`
	PreviousScore   int               `json:"previous_score"`
	PenaltyCount    int               `json:"penalty_count"`
	Penalties       []PenaltyEntryDTO `json:"penalties"`
	UpdatedAt       string            `json:"updated_at,omitempty"`
}

type UserReputationResponse struct {
	Status string            `json:"status"`
	Data   UserReputationDTO `json:"data"`
}

type ApplyPenaltyRequest struct {
	ActionKind  string `json:"action_kind"`
	ReferenceID string `json:"reference_id"`
}

type ApplyPenaltyResponse struct {
	Status string `json:"status"`
	Data   struct {
		Applied    bool              `json:"applied"`
		Reputation UserReputationDTO `json:"reputation"`
	} `json:"data"`
}
