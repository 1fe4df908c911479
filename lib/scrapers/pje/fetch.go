package pje

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultMaxAttempts = 30

type FetchOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// per-request timeout, defaults to DefaultTimeout
	Timeout time.Duration
	// retry budget for recoverable failures, defaults to
	// DefaultMaxAttempts
	MaxAttempts int
}

func (o FetchOptions) withDefaults() FetchOptions {
	if o.BaseUrl == "" {
		o.BaseUrl = DefaultBaseUrl
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	return o
}

// Fetch runs one full query against the portal and always resolves to
// an outcome, never an error. The process number need not be
// pre-validated: values off the canonical pattern are normalized best
// effort and queried anyway. Recoverable navigation failures rerun the
// whole session from scratch until the attempt budget runs out;
// transport failures finalize immediately. The telemetry's elapsed
// time is finalized on every exit path.
func Fetch(ctx context.Context, processNumber string, tel *Telemetry, opts FetchOptions) QueryOutcome {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("process", processNumber))

	opts = opts.withDefaults()
	start := time.Now()
	finalize := func(outcome QueryOutcome) QueryOutcome {
		tel.TotalSeconds = math.Round(time.Since(start).Seconds()*100) / 100
		outcome.Telemetry = *tel
		return outcome
	}

	if !canonicalProcessNumber.MatchString(processNumber) {
		processNumber = NormalizeProcessNumber(processNumber)
		slog.InfoContext(ctx, "normalized process number", "process", processNumber)
	}

	if tel.Attempts >= opts.MaxAttempts {
		slog.ErrorContext(ctx, "retry budget already exhausted", "attempts", tel.Attempts)
		span.SetStatus(codes.Error, "retry budget exhausted")
		return finalize(QueryOutcome{
			Code:     CodeRetryBudgetExceeded,
			Message:  MessageInternalError,
			Datetime: now(),
		})
	}

	for {
		slog.InfoContext(
			ctx, "querying portal",
			"process", processNumber,
			"attempt", tel.Attempts,
		)

		// one fresh session (cookie jar and all) per attempt, the portal
		// keys its UI state to it
		client, err := NewClient(ClientOptions{
			BaseUrl: opts.BaseUrl,
			Timeout: opts.Timeout,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to build client")
			return finalize(QueryOutcome{
				Code:     CodeTransportError,
				Message:  MessageInternalError,
				Datetime: now(),
			})
		}

		record, found, err := client.runQuery(ctx, processNumber)
		if err == nil {
			if !found {
				return finalize(QueryOutcome{
					Code:     CodeSuccess,
					Message:  MessageNotFound,
					Datetime: now(),
					Results:  []ProcessRecord{},
				})
			}
			return finalize(QueryOutcome{
				Code:     CodeSuccess,
				Message:  MessageFound,
				Datetime: now(),
				Results:  []ProcessRecord{*record},
			})
		}

		if isTransportError(err) {
			slog.ErrorContext(ctx, "transport failure", "err", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "transport failure")
			return finalize(QueryOutcome{
				Code:     CodeTransportError,
				Message:  MessageInternalError,
				Datetime: now(),
			})
		}

		tel.Attempts++
		if tel.Attempts >= opts.MaxAttempts {
			slog.ErrorContext(ctx, "retry budget exhausted", "attempts", tel.Attempts, "err", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "retry budget exhausted")
			return finalize(QueryOutcome{
				Code:     CodeRetryBudgetExceeded,
				Message:  MessageInternalError,
				Datetime: now(),
			})
		}
		slog.WarnContext(ctx, "navigation failed, retrying", "attempt", tel.Attempts, "err", err)
	}
}

// isTransportError tells "could not reach the server" apart from
// "something failed mid-parse". Only the latter is worth retrying.
func isTransportError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func now() string {
	return time.Now().Format("2006-01-02 15:04:05.000000")
}
