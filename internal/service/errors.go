package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/freightledger/internal/apperr"
	"github.com/mmynk/freightledger/internal/auth"
	"github.com/mmynk/freightledger/internal/middleware"
	"github.com/mmynk/freightledger/internal/models"
)

// toConnectError maps a ledger error kind onto the matching Connect code.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, apperr.ErrInvalidState):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, apperr.ErrConflict):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, apperr.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, apperr.ErrPermissionDenied):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// actorFrom returns the authenticated caller put on ctx by middleware.RequireAuth.
func actorFrom(ctx context.Context) (models.Actor, error) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		return models.Actor{}, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return actor, nil
}
