package domain

import "errors"

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrAccountInactive        = errors.New("account inactive or blocked")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrInvalidCurrency        = errors.New("invalid currency")
	ErrRateServiceUnavailable = errors.New("rate service unavailable")
	ErrRateUnavailable        = errors.New("rate unavailable")
	ErrInsufficientFunds      = errors.New("insufficient funds")
)
