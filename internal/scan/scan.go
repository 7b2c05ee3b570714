// Package scan drives the lookup pipeline: every candidate is hashed,
// resolved and reported before the next one starts.
package scan

//go:generate mockgen -source=scan.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"udscan/internal/namespace"
	"udscan/internal/ownership"
	"udscan/internal/platform/metrics"
)

// Hasher derives the registry identifier for a domain name.
type Hasher interface {
	Hash(ctx context.Context, name string) (string, error)
}

// Resolver returns the owner of an identifier.
type Resolver interface {
	OwnerOf(ctx context.Context, identifier string) (string, error)
}

// Reporter emits the line for one finished lookup.
type Reporter interface {
	Report(name, owner string, lookupErr error) (ownership.Outcome, error)
}

type Scanner struct {
	hasher   Hasher
	resolver Resolver
	reporter Reporter
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

type Option func(*Scanner)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scanner) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Scanner) {
		s.tracer = tracer
	}
}

func New(hasher Hasher, resolver Resolver, reporter Reporter, opts ...Option) (*Scanner, error) {
	if hasher == nil {
		return nil, fmt.Errorf("hasher is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if reporter == nil {
		return nil, fmt.Errorf("reporter is required")
	}

	s := &Scanner{
		hasher:   hasher,
		resolver: resolver,
		reporter: reporter,
		logger:   slog.Default(),
		tracer:   otel.Tracer("udscan/internal/scan"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	return s, nil
}

// Run processes candidates in order. Per-candidate failures are reported and
// skipped; Run only stops early when ctx is cancelled, returning ctx.Err().
func (s *Scanner) Run(ctx context.Context, candidates iter.Seq[namespace.Candidate]) error {
	started := time.Now()
	processed := 0
	for c := range candidates {
		if err := ctx.Err(); err != nil {
			s.logger.WarnContext(ctx, "scan interrupted", "processed", processed, "next", c.Name())
			return err
		}
		s.process(ctx, c)
		processed++
	}
	s.logger.InfoContext(ctx, "scan finished", "processed", processed, "duration", time.Since(started))
	return nil
}

func (s *Scanner) process(ctx context.Context, c namespace.Candidate) {
	name := c.Name()
	ctx, span := s.tracer.Start(ctx, "scan.lookup", trace.WithAttributes(
		attribute.String("domain.name", name),
		attribute.String("domain.suffix", c.Suffix),
	))
	defer span.End()

	owner, lookupErr := s.lookup(ctx, name)

	outcome, err := s.reporter.Report(name, owner, lookupErr)
	if err != nil {
		s.logger.WarnContext(ctx, "writing report line failed", "domain", name, "error", err)
	}
	s.metrics.IncrementOutcome(outcome)
	span.SetAttributes(attribute.String("lookup.outcome", string(outcome)))
	if outcome == ownership.OutcomeFailed {
		span.RecordError(lookupErr)
		span.SetStatus(codes.Error, "lookup failed")
	}
}

func (s *Scanner) lookup(ctx context.Context, name string) (string, error) {
	start := time.Now()
	identifier, err := s.hasher.Hash(ctx, name)
	s.metrics.ObserveHash(start)
	if err != nil {
		return "", err
	}
	s.logger.DebugContext(ctx, "hashed candidate", "domain", name, "identifier", identifier)

	start = time.Now()
	owner, err := s.resolver.OwnerOf(ctx, identifier)
	s.metrics.ObserveLookup(start)
	return owner, err
}
