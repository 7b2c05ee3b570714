package ownership

import (
	"errors"
	"strings"
)

// Outcome is the normalized result of an ownership lookup.
type Outcome string

const (
	// OutcomeOwned means the identifier resolved to an owner address.
	OutcomeOwned Outcome = "owned"

	// OutcomeUnregistered means the registry has never minted the identifier.
	OutcomeUnregistered Outcome = "unregistered"

	// OutcomeFailed covers every other failure: transport, provider, or an
	// unexpected revert reason.
	OutcomeFailed Outcome = "failed"
)

// UnregisteredPrefix is the text an unminted token's revert starts with.
const UnregisteredPrefix = `Error: execution reverted: "ERC721: invalid token ID"`

// RevertError reports a call the registry contract reverted.
type RevertError struct {
	Reason     string
	Underlying error
}

// Error renders the revert the way node providers quote it, so the text can
// be matched by prefix.
func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "Error: execution reverted"
	}
	return `Error: execution reverted: "` + e.Reason + `"`
}

// Unwrap supports error unwrapping
func (e *RevertError) Unwrap() error {
	return e.Underlying
}

// Sentinel errors for lookups that never reach the registry.
var (
	ErrInvalidTokenID = errors.New("invalid token id")
	ErrMissingMethod  = errors.New("contract interface has no ownerOf method")
	ErrEmptyResult    = errors.New("ownerOf returned no values")
)

// Classify maps a lookup error to its outcome. Only errors whose text starts
// with UnregisteredPrefix count as unregistered.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeOwned
	}
	if strings.HasPrefix(err.Error(), UnregisteredPrefix) {
		return OutcomeUnregistered
	}
	return OutcomeFailed
}
