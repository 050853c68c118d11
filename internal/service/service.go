// Package service implements the splitledger.v1.LedgerService RPCs on top of
// the ledger and reconciliation engines.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/reconcile"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api/ledgerv1/ledgerv1connect"
)

var (
	errInvalidArgument  = errors.New("invalid argument")
	errPermissionDenied = errors.New("permission denied")
)

// LedgerService implements the Connect LedgerService.
type LedgerService struct {
	ledgerv1connect.UnimplementedLedgerServiceHandler

	store      storage.Store
	ledger     *ledger.Ledger
	reconciler *reconcile.Engine
	logger     *slog.Logger
}

var _ ledgerv1connect.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a LedgerService. logger may be nil.
func NewLedgerService(l *ledger.Ledger, reconciler *reconcile.Engine, logger *slog.Logger) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{
		store:      l.Store(),
		ledger:     l,
		reconciler: reconciler,
		logger:     logger,
	}
}

// requireCaller returns the authenticated user ID from the context.
func requireCaller(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	return userID, nil
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidArgument, fmt.Sprintf(format, args...))
}

func permissionDenied(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errPermissionDenied, fmt.Sprintf(format, args...))
}

// toConnectError maps domain and storage errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	code := connect.CodeInternal
	switch {
	case errors.Is(err, calculator.ErrInvalidSplit), errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, errInvalidArgument):
		code = connect.CodeInvalidArgument
	case errors.Is(err, storage.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, errPermissionDenied):
		code = connect.CodePermissionDenied
	case errors.Is(err, storage.ErrBusy):
		code = connect.CodeUnavailable
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	}
	return connect.NewError(code, err)
}

// fail logs a failed RPC and converts err for the wire. Internal failures,
// which include ledger invariant violations, log at ERROR.
func (s *LedgerService) fail(ctx context.Context, rpc string, err error, attrs ...any) error {
	connectErr := toConnectError(err)

	level := slog.LevelWarn
	if connectErr.Code() == connect.CodeInternal {
		level = slog.LevelError
	}
	if errors.Is(err, ledger.ErrInvariantViolation) {
		attrs = append(attrs, "invariant_violation", true)
	}
	attrs = append(attrs, "code", connectErr.Code().String(), "error", err)
	s.logger.Log(ctx, level, rpc+" failed", attrs...)

	return connectErr
}
