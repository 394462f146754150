// Package scheduler corre los trabajos periódicos del cierre diario con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/balcao-digital-api/pkg/logger"
)

// DailyJobs trabajos sobre todos los usuarios (stats.UseCase).
type DailyJobs interface {
	CheckAndResetAll(ctx context.Context) ([]string, error)
	SyncAll(ctx context.Context) error
}

// BoardInvalidator descarta el tablero en memoria de un usuario tras el reset.
type BoardInvalidator interface {
	Invalidate(userID string)
}

// Config specs cron y zona horaria del restaurante.
type Config struct {
	ResetCheckSpec string
	StatsSyncSpec  string
	Location       *time.Location
	JobTimeout     time.Duration
}

// Scheduler envuelve cron.Cron.
type Scheduler struct {
	cron    *cron.Cron
	jobs    DailyJobs
	boards  BoardInvalidator
	timeout time.Duration
	log     *logger.Logger
}

// New registra el chequeo de reset y la sincronización de estadísticas. boards puede ser nil.
func New(cfg Config, jobs DailyJobs, boards BoardInvalidator, log *logger.Logger) (*Scheduler, error) {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Second
	}
	l := log.Component("scheduler")
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithLogger(cronLogger{log: l}),
			cron.WithChain(cron.Recover(cronLogger{log: l})),
		),
		jobs:    jobs,
		boards:  boards,
		timeout: cfg.JobTimeout,
		log:     l,
	}
	if cfg.ResetCheckSpec != "" {
		if _, err := s.cron.AddFunc(cfg.ResetCheckSpec, s.ResetCheck); err != nil {
			return nil, fmt.Errorf("scheduler: spec de reset %q: %w", cfg.ResetCheckSpec, err)
		}
	}
	if cfg.StatsSyncSpec != "" {
		if _, err := s.cron.AddFunc(cfg.StatsSyncSpec, s.StatsSync); err != nil {
			return nil, fmt.Errorf("scheduler: spec de sync %q: %w", cfg.StatsSyncSpec, err)
		}
	}
	return s, nil
}

// Start arranca cron en su propia goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler iniciado")
}

// Stop detiene cron y espera a los trabajos en curso o a que ctx venza.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler detenido con trabajos en curso")
	}
}

// ResetCheck ejecuta el reset de todos los usuarios que lo necesiten.
func (s *Scheduler) ResetCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	reset, err := s.jobs.CheckAndResetAll(ctx)
	if s.boards != nil {
		for _, id := range reset {
			s.boards.Invalidate(id)
		}
	}
	if err != nil {
		s.log.Error().Err(err).Int("reset", len(reset)).Msg("chequeo de reset con errores")
		return
	}
	if len(reset) > 0 {
		s.log.Info().Strs("user_ids", reset).Msg("reset diario aplicado")
	}
}

// StatsSync recalcula las estadísticas del día de todos los usuarios.
func (s *Scheduler) StatsSync() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.jobs.SyncAll(ctx); err != nil {
		s.log.Error().Err(err).Msg("sincronización de estadísticas con errores")
	}
}

// cronLogger adapta pkg/logger a cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
