package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/spring-sisters/spring-backend/internal/logger"
	"github.com/spring-sisters/spring-backend/internal/profile/domain"
	"github.com/spring-sisters/spring-backend/internal/ritual"
)

// Store is the persistence the service needs; repository.Repo implements it.
type Store interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Mutate(ctx context.Context, userID string, fn func(*domain.Profile) error) (*domain.Profile, error)
	Delete(ctx context.Context, userID string) error
	ListPushTargets(ctx context.Context) ([]domain.PushTarget, error)
}

// ResetHook clears state owned by another feature when a profile is reset.
type ResetHook func(ctx context.Context, userID string) error

type ProfileService struct {
	store Store
	hooks []ResetHook
}

func NewProfileService(store Store, hooks ...ResetHook) *ProfileService {
	return &ProfileService{store: store, hooks: hooks}
}

// Get returns the user's profile, or the defaults when none was saved.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := s.store.Get(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return domain.Default(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies a partial onboarding or settings write.
func (s *ProfileService) Update(ctx context.Context, userID string, req domain.UpdateRequest) (*domain.Profile, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}
	return s.store.Mutate(ctx, userID, func(p *domain.Profile) error {
		if req.Name != nil {
			p.Name = strings.TrimSpace(*req.Name)
		}
		if req.Email != nil {
			p.Email = strings.TrimSpace(*req.Email)
		}
		if req.ReferenceDate != nil {
			d := *req.ReferenceDate
			p.ReferenceDate = &d
		}
		if req.CycleLengthDays != nil {
			p.CycleLengthDays = *req.CycleLengthDays
		}
		for id, qty := range req.Inventory {
			p.Inventory[id] = qty
		}
		if req.SkinConcerns != nil {
			p.SkinConcerns = dedupeConcerns(*req.SkinConcerns)
		}
		if req.CellularMode != nil {
			p.CellularMode = *req.CellularMode
		}
		if req.PushToken != nil {
			p.PushToken = strings.TrimSpace(*req.PushToken)
		}
		return nil
	})
}

// SetQuantity records how many units of a product the user holds. Zero
// keeps the entry but the product no longer counts as owned.
func (s *ProfileService) SetQuantity(ctx context.Context, userID string, productID catalog.ProductID, qty int) (*domain.Profile, error) {
	if !catalog.Known(productID) {
		return nil, fmt.Errorf("%w: unknown product %q", domain.ErrInvalidInput, productID)
	}
	if qty < 0 {
		return nil, fmt.Errorf("%w: quantity must be >= 0", domain.ErrInvalidInput)
	}
	return s.store.Mutate(ctx, userID, func(p *domain.Profile) error {
		p.Inventory[productID] = qty
		return nil
	})
}

// SetCustomRituals replaces the override as a whole. Unknown ids are
// rejected; use ApplyRitualUpdate for lenient sources.
func (s *ProfileService) SetCustomRituals(ctx context.Context, userID string, c ritual.Custom) (*domain.Profile, error) {
	if unknown := c.Unknown(); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown products %v", domain.ErrInvalidInput, unknown)
	}
	clean, ok := ritual.Sanitize(c)
	if !ok {
		return nil, fmt.Errorf("%w: a custom ritual needs at least one step", domain.ErrInvalidInput)
	}
	if len(clean.Morning) != len(c.Morning) || len(clean.Evening) != len(c.Evening) {
		return nil, fmt.Errorf("%w: duplicate products or more than %d steps", domain.ErrInvalidInput, ritual.MaxCustomSteps)
	}
	return s.writeCustom(ctx, userID, &clean)
}

// ApplyRitualUpdate sanitizes an externally authored override and writes it
// in one step. ok is false when nothing usable remained and nothing was written.
func (s *ProfileService) ApplyRitualUpdate(ctx context.Context, userID string, c ritual.Custom) (p *domain.Profile, ok bool, err error) {
	clean, ok := ritual.Sanitize(c)
	if !ok {
		return nil, false, nil
	}
	p, err = s.writeCustom(ctx, userID, &clean)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s *ProfileService) ClearCustomRituals(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.writeCustom(ctx, userID, nil)
}

// Reset deletes the profile and every piece of state hanging off it.
func (s *ProfileService) Reset(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return err
	}
	for _, h := range s.hooks {
		if err := h(ctx, userID); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}
	logger.NewLogger(ctx).LogInfof("profile_reset", "user_id=%s", userID)
	return nil
}

func (s *ProfileService) PushTargets(ctx context.Context) ([]domain.PushTarget, error) {
	return s.store.ListPushTargets(ctx)
}

func (s *ProfileService) writeCustom(ctx context.Context, userID string, c *ritual.Custom) (*domain.Profile, error) {
	return s.store.Mutate(ctx, userID, func(p *domain.Profile) error {
		p.CustomRituals = c
		return nil
	})
}

func validateUpdate(req domain.UpdateRequest) error {
	for id, qty := range req.Inventory {
		if !catalog.Known(id) {
			return fmt.Errorf("%w: unknown product %q", domain.ErrInvalidInput, id)
		}
		if qty < 0 {
			return fmt.Errorf("%w: quantity must be >= 0", domain.ErrInvalidInput)
		}
	}
	if req.SkinConcerns != nil {
		for _, c := range *req.SkinConcerns {
			if !c.Valid() {
				return fmt.Errorf("%w: unknown skin concern %q", domain.ErrInvalidInput, c)
			}
		}
	}
	if req.Name != nil && len(*req.Name) > 80 {
		return fmt.Errorf("%w: name too long", domain.ErrInvalidInput)
	}
	return nil
}

func dedupeConcerns(in []catalog.Concern) []catalog.Concern {
	out := make([]catalog.Concern, 0, len(in))
	for _, c := range in {
		if !catalog.HasConcern(out, c) {
			out = append(out, c)
		}
	}
	return out
}
