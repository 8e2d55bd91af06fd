package jobs

import (
	"context"
)

// PendingReevaluator интерфейс повторной оценки pending записей
type PendingReevaluator interface {
	ReevaluatePending(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Runner координирует фоновые задачи сервиса
type Runner struct {
	appointments PendingReevaluator
	logger       Logger
}

// NewRunner создает новый экземпляр runner-а фоновых задач
func NewRunner(appointments PendingReevaluator, logger Logger) *Runner {
	return &Runner{
		appointments: appointments,
		logger:       logger,
	}
}

// ReevaluatePendingAppointments прогоняет все pending записи через
// авто-подтверждение в порядке created_at
// Запускается по расписанию; полезна после включения авто-подтверждения
// администратором задним числом
func (r *Runner) ReevaluatePendingAppointments() {
	r.runWithRecovery("ReevaluatePendingAppointments", func() {
		ctx := context.Background()
		if err := r.appointments.ReevaluatePending(ctx); err != nil {
			r.logger.Error("ReevaluatePendingAppointments: %v", err)
		}
	})
}

// runWithRecovery выполняет задачу с защитой от паники
func (r *Runner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("job %s panicked: %v", jobName, rec)
		}
	}()

	r.logger.Info("job %s: starting", jobName)
	jobFunc()
	r.logger.Info("job %s: completed", jobName)
}
