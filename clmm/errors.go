package clmm

import "errors"

var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrPriceLimitOutOfRange = errors.New("price limit out of range")
	ErrInsufficientAccrued  = errors.New("insufficient accrued amount")
	ErrPositionNotFound     = errors.New("position not found")
	ErrSwapDidNotConverge   = errors.New("swap did not converge")
)
