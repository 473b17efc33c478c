// Package relay validates sponsored relay requests against the registrar
// contract calls this service is willing to approve.
package relay

import (
	"context"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/hyperledger/firefly-signer/pkg/abi"
)

// Method selectors of the commit-reveal registrar contract. The hex values
// are fixed by the contract ABI, not by configuration.
const (
	commitSelector             = "0xf14fcbc8" // commit(bytes32)
	registerSelector           = "0x85f6d155" // register(string,address,uint256,bytes32)
	registerWithConfigSelector = "0xf7a16963" // registerWithConfig(string,address,uint256,bytes32,address,address)
)

var registerABI = &abi.Entry{
	Name: "register",
	Inputs: abi.ParameterArray{
		{Name: "name", Type: "string"},
		{Name: "owner", Type: "address"},
		{Name: "duration", Type: "uint256"},
		{Name: "secret", Type: "bytes32"},
	},
}

var registerWithConfigABI = &abi.Entry{
	Name: "registerWithConfig",
	Inputs: abi.ParameterArray{
		{Name: "name", Type: "string"},
		{Name: "owner", Type: "address"},
		{Name: "duration", Type: "uint256"},
		{Name: "secret", Type: "bytes32"},
		{Name: "resolver", Type: "address"},
		{Name: "addr", Type: "address"},
	},
}

// Result reports the outcome of relay request validation.
type Result struct {
	Valid      bool
	Commitment bool
}

// Validator checks that a relay request targets the configured registrar
// contract with a registration call for the expected domain.
type Validator struct {
	registrarAddress string
	logger           *slog.Logger
}

// NewValidator constructs a validator bound to the registrar contract address.
func NewValidator(registrarAddress string, logger *slog.Logger) *Validator {
	return &Validator{registrarAddress: registrarAddress, logger: logger}
}

// Verify is a pure check over the given request plus static configuration.
// Malformed calldata is reported as invalid, never raised.
//
// Commitment calls are accepted without validating the commitment payload:
// the secret is not available at this point, so there is nothing to check it
// against. Known weakness, kept for compatibility with the deployed contract
// flow.
func (v *Validator) Verify(ctx context.Context, expectedDomain string, req *RelayRequest) Result {
	if req == nil {
		return Result{}
	}
	if !strings.EqualFold(v.registrarAddress, req.Request.To) {
		v.logger.WarnContext(ctx, "relay request targets wrong contract",
			"expected", v.registrarAddress,
			"actual", req.Request.To,
		)
		return Result{}
	}

	data := req.Request.Data
	if len(data) < 10 || !strings.HasPrefix(data, "0x") {
		v.logger.WarnContext(ctx, "relay request calldata too short")
		return Result{}
	}
	selector := strings.ToLower(data[:10])

	if selector == commitSelector {
		v.logger.InfoContext(ctx, "commitment call accepted without payload validation")
		return Result{Valid: true, Commitment: true}
	}

	var entry *abi.Entry
	switch selector {
	case registerSelector:
		entry = registerABI
	case registerWithConfigSelector:
		entry = registerWithConfigABI
	default:
		v.logger.WarnContext(ctx, "relay request calls unexpected method", "selector", selector)
		return Result{}
	}

	callData, err := hex.DecodeString(data[2:])
	if err != nil {
		v.logger.WarnContext(ctx, "relay request calldata is not valid hex", "error", err)
		return Result{}
	}
	cv, err := entry.DecodeCallDataCtx(ctx, callData)
	if err != nil {
		v.logger.WarnContext(ctx, "relay request calldata failed ABI decoding",
			"method", entry.Name,
			"error", err,
		)
		return Result{}
	}

	requestedDomain, ok := cv.Children[0].Value.(string)
	if !ok {
		v.logger.WarnContext(ctx, "decoded domain argument has unexpected type", "method", entry.Name)
		return Result{}
	}
	if !strings.EqualFold(requestedDomain, expectedDomain) {
		v.logger.WarnContext(ctx, "relay request registers wrong domain",
			"expected", expectedDomain,
			"actual", requestedDomain,
		)
		return Result{}
	}
	return Result{Valid: true}
}
