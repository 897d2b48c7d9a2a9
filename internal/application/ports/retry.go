package ports

import (
	"context"

	"github.com/jhoicas/omnicanal-api/internal/domain"
	"github.com/jhoicas/omnicanal-api/pkg/logger"
)

// RunWithRetry ejecuta fn y la reintenta una sola vez si el error es transitorio
// (conflicto de concurrencia o fallo de persistencia). Los rechazos de negocio no se reintentan.
func RunWithRetry(ctx context.Context, log *logger.Logger, op string, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err == nil || !domain.IsTransient(err) {
		return err
	}
	if ctx.Err() != nil {
		return err
	}
	log.Ctx(ctx).Warn().Err(err).Str("op", op).Int("attempt", 2).Msg("error transitorio, reintentando una vez")
	return fn(ctx)
}
