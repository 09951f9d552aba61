package member

import (
	"context"
	"strings"

	"mess-app-go/internal/domain/cutoff"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id string) (*Member, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByAuthUser(ctx context.Context, authUserID string) (*Member, error) {
	return s.repo.GetByAuthUser(ctx, authUserID)
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]Member, error) {
	return s.repo.List(ctx, activeOnly)
}

// Provision creates the member row for a newly authenticated account.
func (s *Service) Provision(ctx context.Context, authUserID, name string) (*Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	record := Member{
		ID:         uuid.NewString(),
		AuthUserID: authUserID,
		Name:       name,
		RiceType:   RicePlain,
		Active:     true,
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, input ProfileInput) (*Member, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := current.Name
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
	}

	riceType := current.RiceType
	if input.RiceType != nil {
		riceType = strings.ToLower(strings.TrimSpace(*input.RiceType))
		if riceType != RicePlain && riceType != RiceBoiled {
			return nil, ErrInvalidRiceType
		}
	}

	if err := s.repo.UpdateProfile(ctx, id, name, riceType); err != nil {
		return nil, err
	}

	current.Name = name
	current.RiceType = riceType
	return current, nil
}

func (s *Service) UpdateAutoMeal(ctx context.Context, id string, input AutoMealInput) (*Member, error) {
	if input.Quantity < MinQuantity || input.Quantity > MaxQuantity {
		return nil, ErrInvalidQuantity
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateAutoMeal(ctx, id, input.Period, input.Enabled, input.Quantity); err != nil {
		return nil, err
	}

	if input.Period == cutoff.PeriodMorning {
		current.AutoMorning = input.Enabled
		current.AutoMorningQty = input.Quantity
	} else {
		current.AutoNight = input.Enabled
		current.AutoNightQty = input.Quantity
	}
	return current, nil
}

// UpdatePeriodBounds overrides the member's accounting-period cycle. Nil
// values reset to the household default.
func (s *Service) UpdatePeriodBounds(ctx context.Context, id string, startDay, endDay *int) error {
	if startDay != nil && (*startDay < 1 || *startDay > 28) {
		return ErrInvalidPeriodBound
	}
	if endDay != nil && (*endDay < 1 || *endDay > 28) {
		return ErrInvalidPeriodBound
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdatePeriodBounds(ctx, id, startDay, endDay)
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, active)
}
