package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, user ID, duration, and any error codes/messages.
// Place it after RequireAuth so the user ID is known.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure
			userID := GetUserID(ctx)

			resp, err := next(ctx, req)

			duration := time.Since(start).Milliseconds()
			if err == nil {
				logger.InfoContext(ctx, "RPC ok",
					"procedure", procedure,
					"user_id", userID,
					"duration_ms", duration,
				)
				return resp, nil
			}

			code := connect.CodeUnknown
			var connectErr *connect.Error
			if errors.As(err, &connectErr) {
				code = connectErr.Code()
			}

			// Server-side failures are errors; everything else is the caller's problem.
			level := slog.LevelWarn
			switch code {
			case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss:
				level = slog.LevelError
			}
			logger.Log(ctx, level, "RPC error",
				"procedure", procedure,
				"code", code.String(),
				"error", err,
				"user_id", userID,
				"duration_ms", duration,
			)

			return resp, err
		}
	}
}
