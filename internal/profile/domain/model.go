package domain

import (
	"time"

	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/spring-sisters/spring-backend/internal/cycle"
	"github.com/spring-sisters/spring-backend/internal/ritual"
)

// Profile is the per-user state the ritual engine reads from. It is
// storage-agnostic and shared by the repository and HTTP layers.
type Profile struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	// ReferenceDate is day 1 of the most recent cycle; nil until onboarding.
	ReferenceDate   *time.Time                `json:"reference_date,omitempty"`
	CycleLengthDays int                       `json:"cycle_length_days"`
	Inventory       map[catalog.ProductID]int `json:"inventory"`
	SkinConcerns    []catalog.Concern         `json:"skin_concerns"`
	CustomRituals   *ritual.Custom            `json:"custom_rituals,omitempty"`
	CellularMode    bool                      `json:"cellular_mode"`
	PushToken       string                    `json:"-"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// Default is the profile of a user who has not onboarded yet.
func Default(userID string) *Profile {
	return &Profile{
		UserID:          userID,
		CycleLengthDays: cycle.DefaultCycleLength,
		Inventory:       map[catalog.ProductID]int{},
		SkinConcerns:    []catalog.Concern{},
	}
}

// Owned derives ownership from inventory quantities only.
func (p *Profile) Owned() catalog.Owned {
	o := make(catalog.Owned, len(p.Inventory))
	for id, qty := range p.Inventory {
		if qty > 0 {
			o[id] = true
		}
	}
	return o
}

// Normalize repairs values that may come from older rows or partial writes.
func (p *Profile) Normalize() {
	p.CycleLengthDays = cycle.NormalizeCycleLength(p.CycleLengthDays)
	if p.Inventory == nil {
		p.Inventory = map[catalog.ProductID]int{}
	}
	if p.SkinConcerns == nil {
		p.SkinConcerns = []catalog.Concern{}
	}
	if p.CustomRituals.Empty() {
		p.CustomRituals = nil
	}
	if p.ReferenceDate != nil {
		d := time.Date(p.ReferenceDate.Year(), p.ReferenceDate.Month(), p.ReferenceDate.Day(), 0, 0, 0, 0, time.UTC)
		p.ReferenceDate = &d
	}
}

// UpdateRequest is a partial onboarding/settings write. Nil fields are left
// untouched.
type UpdateRequest struct {
	Name            *string
	Email           *string
	ReferenceDate   *time.Time
	CycleLengthDays *int
	Inventory       map[catalog.ProductID]int
	SkinConcerns    *[]catalog.Concern
	CellularMode    *bool
	PushToken       *string
}

// PushTarget is a user that can receive push notifications.
type PushTarget struct {
	UserID    string
	PushToken string
}
