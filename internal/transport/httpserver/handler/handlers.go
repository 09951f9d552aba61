package handler

import (
	accountingdomain "mess-app-go/internal/domain/accounting"
	chatdomain "mess-app-go/internal/domain/chat"
	mealdomain "mess-app-go/internal/domain/meal"
	memberdomain "mess-app-go/internal/domain/member"
	"mess-app-go/pkg/logger"
)

type Handlers struct {
	Meals      *mealdomain.Service
	Members    *memberdomain.Service
	Chat       *chatdomain.Service
	Accounting *accountingdomain.Service
	clock      ClockStatus
	log        logger.Logger
}

func New(meals *mealdomain.Service, members *memberdomain.Service, chat *chatdomain.Service, accounting *accountingdomain.Service, clock ClockStatus, log logger.Logger) *Handlers {
	return &Handlers{
		Meals:      meals,
		Members:    members,
		Chat:       chat,
		Accounting: accounting,
		clock:      clock,
		log:        log,
	}
}
