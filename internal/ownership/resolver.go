// Package ownership resolves registry identifiers to their current owner.
package ownership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

const ownerOfMethod = "ownerOf"

// ContractResolver calls ownerOf on a deployed ERC-721 registry. Each call
// makes exactly one attempt.
type ContractResolver struct {
	address  common.Address
	contract *bind.BoundContract
	logger   *slog.Logger
}

type Option func(*ContractResolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *ContractResolver) {
		r.logger = logger
	}
}

// NewContractResolver binds the interface described by abiJSON to address.
// The interface may come from a different contract than address, as long as
// it declares ownerOf.
func NewContractResolver(abiJSON string, address common.Address, caller bind.ContractCaller, opts ...Option) (*ContractResolver, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("parse contract interface: %w", err)
	}
	if _, ok := parsed.Methods[ownerOfMethod]; !ok {
		return nil, ErrMissingMethod
	}

	r := &ContractResolver{
		address:  address,
		contract: bind.NewBoundContract(address, parsed, caller, nil, nil),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Address returns the registry the resolver queries.
func (r *ContractResolver) Address() common.Address {
	return r.address
}

// OwnerOf returns the checksummed owner of identifier. Reverts come back as
// *RevertError; anything else is returned as the call produced it.
func (r *ContractResolver) OwnerOf(ctx context.Context, identifier string) (string, error) {
	tokenID, err := ParseTokenID(identifier)
	if err != nil {
		return "", err
	}

	var out []interface{}
	err = r.contract.Call(&bind.CallOpts{Context: ctx}, &out, ownerOfMethod, tokenID)
	if err != nil {
		return "", normalizeRevert(err)
	}
	if len(out) == 0 {
		return "", ErrEmptyResult
	}

	owner := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	r.logger.DebugContext(ctx, "resolved owner", "identifier", identifier, "owner", owner.Hex())
	return owner.Hex(), nil
}

// ParseTokenID reads a 0x-prefixed hex or a decimal token id.
func ParseTokenID(identifier string) (*big.Int, error) {
	digits, base := identifier, 10
	if rest, ok := strings.CutPrefix(identifier, "0x"); ok {
		digits, base = rest, 16
	} else if rest, ok := strings.CutPrefix(identifier, "0X"); ok {
		digits, base = rest, 16
	}
	if digits == "" || strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTokenID, identifier)
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTokenID, identifier)
	}
	return n, nil
}

// normalizeRevert turns a node's revert error into a *RevertError carrying
// the decoded reason. Other errors pass through unchanged.
func normalizeRevert(err error) error {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if hexData, ok := dataErr.ErrorData().(string); ok {
			if data, decErr := hexutil.Decode(hexData); decErr == nil {
				if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
					return &RevertError{Reason: reason, Underlying: err}
				}
			}
		}
	}

	msg := err.Error()
	if reason, ok := strings.CutPrefix(msg, "execution reverted: "); ok {
		return &RevertError{Reason: reason, Underlying: err}
	}
	if msg == "execution reverted" {
		return &RevertError{Underlying: err}
	}
	return err
}
