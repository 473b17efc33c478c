// Package ens answers whether a domain name is already registered, via a
// recordExists read against the ENS registry contract.
package ens

import (
	"context"
	"encoding/hex"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/hyperledger/firefly-signer/pkg/abi"
	"github.com/hyperledger/firefly-signer/pkg/ethsigner"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/hyperledger/firefly-signer/pkg/rpcbackend"

	"enspass/internal/platform/config"
	dErrors "enspass/pkg/domain-errors"
)

// Oracle reports whether a domain is already registered. A lookup failure is
// an explicit error ("cannot confirm"), never reported as "available".
type Oracle interface {
	RecordExists(ctx context.Context, domain string) (bool, error)
}

var recordExistsABI = &abi.Entry{
	Name: "recordExists",
	Inputs: abi.ParameterArray{
		{Name: "node", Type: "bytes32"},
	},
}

// RPCOracle reads the ENS registry over Ethereum JSON-RPC.
type RPCOracle struct {
	rpc      rpcbackend.Backend
	registry *ethtypes.Address0xHex
	logger   *slog.Logger
}

// NewRPCOracle builds an oracle against the configured node and registry
// contract.
func NewRPCOracle(cfg config.ChainConfig, logger *slog.Logger) (*RPCOracle, error) {
	registry, err := ethtypes.NewAddress(cfg.ENSRegistry)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "invalid ENS registry address")
	}
	return &RPCOracle{
		rpc:      rpcbackend.NewRPCClient(resty.New().SetBaseURL(cfg.NodeURL)),
		registry: registry,
		logger:   logger,
	}, nil
}

// RecordExists calls recordExists(namehash(domain)) on the registry.
func (o *RPCOracle) RecordExists(ctx context.Context, domain string) (bool, error) {
	node := Namehash(domain)
	callData, err := recordExistsABI.EncodeCallDataValuesCtx(ctx, []interface{}{"0x" + hex.EncodeToString(node[:])})
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "encode recordExists call")
	}

	tx := &ethsigner.Transaction{
		To:   o.registry,
		Data: ethtypes.HexBytes0xPrefix(callData),
	}
	var result ethtypes.HexBytes0xPrefix
	if rpcErr := o.rpc.CallRPC(ctx, &result, "eth_call", tx, "latest"); rpcErr != nil {
		o.logger.ErrorContext(ctx, "eth_call recordExists failed", "domain", domain, "error", rpcErr.Error())
		return false, dErrors.Wrap(rpcErr.Error(), dErrors.CodeUnavailable, "cannot confirm domain registration")
	}

	for _, b := range result {
		if b != 0 {
			return true, nil
		}
	}
	return false, nil
}
