package http

import "github.com/spring-sisters/spring-backend/internal/profile/service"

// Handler bundles the dependencies for profile endpoints.
type Handler struct {
	svc *service.ProfileService
}

func New(svc *service.ProfileService) *Handler {
	return &Handler{svc: svc}
}

type updateReq struct {
	Name            *string        `json:"name"`
	Email           *string        `json:"email"`
	ReferenceDate   *string        `json:"reference_date"`
	CycleLengthDays *int           `json:"cycle_length_days"`
	Inventory       map[string]int `json:"inventory"`
	SkinConcerns    *[]string      `json:"skin_concerns"`
	CellularMode    *bool          `json:"cellular_mode"`
	PushToken       *string        `json:"push_token"`
}

type quantityReq struct {
	Quantity *int `json:"quantity"`
}

type ritualsReq struct {
	Morning []string `json:"morning"`
	Evening []string `json:"evening"`
	Note    string   `json:"note"`
}
