package get_daily_capacity

import (
	"context"

	getDailyCapacity "github.com/fitform/FitForm-OrderService/internal/usecase/get_daily_capacity"
)

type GetDailyCapacityUseCase interface {
	Execute(ctx context.Context, req *getDailyCapacity.Request) (*getDailyCapacity.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
