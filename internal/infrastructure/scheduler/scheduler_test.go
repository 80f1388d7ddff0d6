package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
)

type fakeGenerator struct {
	calls atomic.Int32
	n     int
	err   error
}

func (f *fakeGenerator) GenerateDue(_ context.Context, now time.Time) (int, error) {
	f.calls.Add(1)
	if now.Location() != time.UTC {
		return 0, errors.New("se esperaba UTC")
	}
	return f.n, f.err
}

func TestNew_ExpresionInvalida(t *testing.T) {
	_, err := scheduler.New("cada rato", &fakeGenerator{}, logger.Nop())
	assert.Error(t, err)
}

func TestRunOnce_PropagaResultado(t *testing.T) {
	gen := &fakeGenerator{n: 3}
	s, err := scheduler.New("@every 1h", gen, logger.Nop())
	require.NoError(t, err)

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	gen.err = errors.New("bd caída")
	_, err = s.RunOnce(context.Background())
	assert.EqualError(t, err, "bd caída")
	assert.Equal(t, int32(2), gen.calls.Load())
}

func TestStartStop_EjecutaPeriodicamente(t *testing.T) {
	gen := &fakeGenerator{}
	s, err := scheduler.New("@every 1s", gen, logger.Nop())
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return gen.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
