package tax

import "errors"

var (
	ErrNegativeIncome  = errors.New("income must be non-negative")
	ErrNoBracket       = errors.New("no tax bracket matches income")
	ErrInvalidSchedule = errors.New("invalid tax schedule")
)
