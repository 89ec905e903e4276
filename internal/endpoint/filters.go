package endpoint

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/HerbHall/contactbook/internal/validation"
)

// ValidationGuard validates the first bound argument of type T with v. On
// failure it answers with a validation problem listing the failing fields;
// otherwise it forwards.
func ValidationGuard[T any](v validation.Validator[T]) Filter {
	return FilterFunc(func(ctx context.Context, inv *Invocation, next Next) (Result, error) {
		arg, ok := Argument[T](inv)
		if !ok {
			return nil, fmt.Errorf("validation guard: no %T argument bound", *new(T))
		}
		if errs := v.Validate(arg); len(errs) > 0 {
			return ValidationProblem(errs, inv.Request.URL.Path), nil
		}
		return next(ctx, inv)
	})
}

// NotFoundAudit forwards and, when the returned result is a 404, records the
// request path. The result and any error pass through unchanged. counter may
// be nil; when set it is incremented with the route pattern as label.
func NotFoundAudit(logger *zap.Logger, counter *prometheus.CounterVec) Filter {
	return FilterFunc(func(ctx context.Context, inv *Invocation, next Next) (Result, error) {
		res, err := next(ctx, inv)
		if err != nil || res == nil {
			return res, err
		}
		if res.StatusCode() == http.StatusNotFound {
			logger.Info("resource was not found", zap.String("path", inv.Request.URL.Path))
			if counter != nil {
				counter.WithLabelValues(inv.Request.Pattern).Inc()
			}
		}
		return res, nil
	})
}
