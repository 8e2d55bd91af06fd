package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fitform/FitForm-OrderService/internal/jobs"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler управляет расписанием фоновых задач
type Scheduler struct {
	cron   *cron.Cron
	jobs   *jobs.Runner
	logger Logger
}

// New создает планировщик и регистрирует задачи
// reevaluateSpec - cron-выражение для повторной оценки pending записей
func New(jobRunner *jobs.Runner, reevaluateSpec string, logger Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.UTC))

	s := &Scheduler{
		cron:   c,
		jobs:   jobRunner,
		logger: logger,
	}

	if _, err := c.AddFunc(reevaluateSpec, jobRunner.ReevaluatePendingAppointments); err != nil {
		logger.Error("scheduler: failed to register ReevaluatePendingAppointments: %v", err)
	}

	return s
}

// Start запускает планировщик
func (s *Scheduler) Start() {
	s.logger.Info("scheduler: starting")
	s.cron.Start()
}

// Stop останавливает планировщик, дожидаясь завершения текущих задач
func (s *Scheduler) Stop() {
	s.logger.Info("scheduler: stopping")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler: stopped")
}
