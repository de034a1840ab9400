package domain

import "time"

type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
	AccountBlocked  AccountStatus = "blocked"
)

type Account struct {
	ID         int64
	Number     string
	HolderName string
	Status     AccountStatus
	CreatedAt  time.Time
}

func (a *Account) IsActive() bool {
	return a.Status == AccountActive
}
