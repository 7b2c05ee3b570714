// Package app performs the one-time setup of a scan and runs it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"udscan/internal/abisource"
	"udscan/internal/namespace"
	"udscan/internal/ownership"
	"udscan/internal/platform/config"
	"udscan/internal/platform/metrics"
	"udscan/internal/report"
	"udscan/internal/scan"
)

// ErrInterfaceUnavailable aborts a run before any candidate is processed.
var ErrInterfaceUnavailable = errors.New("registry contract interface unavailable")

// Deps are the collaborators a run needs. Interface is queried once for the
// registry ABI; Caller carries every ownerOf call.
type Deps struct {
	Interface  abisource.Source
	Caller     bind.ContractCaller
	Hasher     scan.Hasher
	Out        io.Writer
	Err        io.Writer
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Candidates iter.Seq[namespace.Candidate]
}

// Run loads the registry interface, binds it to the registry address and
// scans every candidate. Lookup failures never fail the run.
func Run(ctx context.Context, deps Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	candidates := deps.Candidates
	if candidates == nil {
		candidates = namespace.Candidates()
	}

	resolver, err := bindRegistry(ctx, deps.Interface, deps.Caller, logger)
	if err != nil {
		return err
	}

	scanner, err := scan.New(deps.Hasher, resolver, report.New(deps.Out, deps.Err),
		scan.WithLogger(logger),
		scan.WithMetrics(deps.Metrics),
	)
	if err != nil {
		return fmt.Errorf("build scanner: %w", err)
	}

	logger.InfoContext(ctx, "starting scan",
		"registry", resolver.Address().Hex(),
		"candidates", namespace.Total(),
	)
	return scanner.Run(ctx, candidates)
}

func bindRegistry(ctx context.Context, source abisource.Source, caller bind.ContractCaller, logger *slog.Logger) (*ownership.ContractResolver, error) {
	interfaceAddr := common.HexToAddress(config.InterfaceSourceAddress)
	abiJSON, err := source.FetchABI(ctx, interfaceAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterfaceUnavailable, err)
	}

	resolver, err := ownership.NewContractResolver(abiJSON, common.HexToAddress(config.RegistryAddress), caller,
		ownership.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterfaceUnavailable, err)
	}
	return resolver, nil
}
