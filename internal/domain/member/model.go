package member

import (
	"time"

	"mess-app-go/internal/domain/cutoff"
)

const (
	RicePlain  = "plain"
	RiceBoiled = "boiled"
)

const (
	MinQuantity = 0
	MaxQuantity = 10
)

// Member is a boarding-house resident. Rows are never hard-deleted; members
// who move out are deactivated so historical registrations keep resolving.
type Member struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	AuthUserID     string    `gorm:"type:uuid;uniqueIndex;not null"`
	Name           string    `gorm:"not null"`
	RiceType       string    `gorm:"type:varchar(16);not null;default:plain"`
	IsAdmin        bool      `gorm:"not null;default:false"`
	Active         bool      `gorm:"not null;default:true"`
	AutoMorning    bool      `gorm:"not null;default:false"`
	AutoMorningQty int       `gorm:"not null;default:0"`
	AutoNight      bool      `gorm:"not null;default:false"`
	AutoNightQty   int       `gorm:"not null;default:0"`
	PeriodStartDay *int      `gorm:"column:period_start_day"`
	PeriodEndDay   *int      `gorm:"column:period_end_day"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Member) TableName() string {
	return "members"
}

// AutoMeal returns the member's default for the period: whether the auto
// meal is enabled and at what quantity.
func (m Member) AutoMeal(period cutoff.Period) (bool, int) {
	if period == cutoff.PeriodMorning {
		return m.AutoMorning, m.AutoMorningQty
	}
	return m.AutoNight, m.AutoNightQty
}

type AutoMealInput struct {
	Period   cutoff.Period
	Enabled  bool
	Quantity int
}

type ProfileInput struct {
	Name     *string
	RiceType *string
}
