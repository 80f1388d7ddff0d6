// Package scheduler ejecuta los trabajos periódicos del sistema (generación de órdenes
// preventivas) con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
)

// PMGenerator genera las OTs de los planes preventivos vencidos a la fecha indicada.
type PMGenerator interface {
	GenerateDue(ctx context.Context, now time.Time) (int, error)
}

// Scheduler envuelve un cron con un único trabajo. Una ejecución que se solapa con la
// anterior se omite.
type Scheduler struct {
	cron    *cron.Cron
	gen     PMGenerator
	log     *logger.Logger
	timeout time.Duration
	now     func() time.Time
}

// New programa el generador con la expresión indicada ("@every 15m", "*/10 * * * *").
func New(schedule string, gen PMGenerator, log *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log}))),
		gen:     gen,
		log:     log,
		timeout: 5 * time.Minute,
		now:     time.Now,
	}
	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return nil, fmt.Errorf("scheduler: expresión %q inválida: %w", schedule, err)
	}
	return s, nil
}

// Start arranca el cron en segundo plano.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("programador de mantenimiento preventivo iniciado")
}

// Stop detiene el cron y espera a que termine la ejecución en curso o venza ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("programador detenido con una ejecución en curso")
	}
}

// RunOnce ejecuta una pasada de generación.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	start := s.now()
	n, err := s.gen.GenerateDue(ctx, start.UTC())
	if err != nil {
		s.log.Error().Err(err).Int("generated", n).Msg("generación de OTs preventivas falló")
		return n, err
	}
	ev := s.log.Debug()
	if n > 0 {
		ev = s.log.Info()
	}
	ev.Int("generated", n).Dur("elapsed", s.now().Sub(start)).Msg("generación de OTs preventivas")
	return n, nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, _ = s.RunOnce(ctx)
}

// cronLogger adapta el logger de la aplicación a cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
