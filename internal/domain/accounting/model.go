package accounting

import "time"

// EggEntry is one append-only transaction in the shared egg ledger. A row
// records either additions (a purchase) or consumptions, never both.
type EggEntry struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	MemberID  string    `gorm:"type:uuid;not null;index"`
	Date      time.Time `gorm:"type:date;not null;index"`
	Added     int       `gorm:"not null;default:0"`
	Consumed  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (EggEntry) TableName() string {
	return "egg_entries"
}

// Expense is a shared grocery purchase paid by one member on behalf of the
// household.
type Expense struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	MemberID  string    `gorm:"type:uuid;not null;index"`
	Date      time.Time `gorm:"type:date;not null;index"`
	Amount    float64   `gorm:"type:numeric(12,2);not null"`
	Note      string    `gorm:""`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Expense) TableName() string {
	return "grocery_expenses"
}

// Deposit is money a member paid into the mess fund.
type Deposit struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	MemberID  string    `gorm:"type:uuid;not null;index"`
	Date      time.Time `gorm:"type:date;not null;index"`
	Amount    float64   `gorm:"type:numeric(12,2);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Deposit) TableName() string {
	return "deposits"
}

// MemberAmount pairs a member with an aggregated monetary amount.
type MemberAmount struct {
	MemberID string
	Amount   float64
}

// MemberCount pairs a member with an aggregated meal quantity.
type MemberCount struct {
	MemberID string
	Count    int64
}

// MemberSummary is one member's line in the period settlement.
type MemberSummary struct {
	MemberID  string  `json:"member_id"`
	Name      string  `json:"name"`
	Meals     int64   `json:"meals"`
	MealCost  float64 `json:"meal_cost"`
	Deposits  float64 `json:"deposits"`
	Expenses  float64 `json:"expenses"`
	Balance   float64 `json:"balance"`
	EggsOwned int     `json:"eggs_owned"`
}

// Summary is the settlement view for one accounting period: total spending
// divided by total meals yields the meal rate, each member owes rate times
// their meal count, and their balance is deposits minus what they owe.
type Summary struct {
	Period       Period          `json:"period"`
	TotalMeals   int64           `json:"total_meals"`
	TotalExpense float64         `json:"total_expense"`
	MealRate     float64         `json:"meal_rate"`
	Members      []MemberSummary `json:"members"`
}
