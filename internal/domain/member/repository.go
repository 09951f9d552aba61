package member

import (
	"context"

	"mess-app-go/internal/domain/cutoff"
)

type Repository interface {
	Get(ctx context.Context, id string) (*Member, error)
	GetByAuthUser(ctx context.Context, authUserID string) (*Member, error)
	List(ctx context.Context, activeOnly bool) ([]Member, error)
	ListAutoEnabled(ctx context.Context, period cutoff.Period) ([]Member, error)
	Create(ctx context.Context, member *Member) error
	UpdateProfile(ctx context.Context, id string, name, riceType string) error
	UpdateAutoMeal(ctx context.Context, id string, period cutoff.Period, enabled bool, quantity int) error
	UpdatePeriodBounds(ctx context.Context, id string, startDay, endDay *int) error
	SetActive(ctx context.Context, id string, active bool) error
}
