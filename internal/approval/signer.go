package approval

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/hyperledger/firefly-signer/pkg/eip712"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/hyperledger/firefly-signer/pkg/secp256k1"

	"enspass/internal/platform/config"
	"enspass/internal/relay"
	dErrors "enspass/pkg/domain-errors"
)

// relayRequestTypes is the typed-data schema the approval signature commits
// to. It mirrors the relay request wire shape field for field so the paymaster
// contract can rebuild the identical digest on chain.
var relayRequestTypes = eip712.TypeSet{
	eip712.EIP712Domain: eip712.Type{
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"RelayRequest": eip712.Type{
		{Name: "request", Type: "ForwardRequest"},
		{Name: "relayData", Type: "RelayData"},
	},
	"ForwardRequest": eip712.Type{
		{Name: "from", Type: "address"},
		{Name: "to", Type: "address"},
		{Name: "value", Type: "uint256"},
		{Name: "gas", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "data", Type: "bytes"},
	},
	"RelayData": eip712.Type{
		{Name: "gasPrice", Type: "uint256"},
		{Name: "pctRelayFee", Type: "uint256"},
		{Name: "baseRelayFee", Type: "uint256"},
		{Name: "relayWorker", Type: "address"},
		{Name: "paymaster", Type: "address"},
		{Name: "paymasterData", Type: "bytes"},
		{Name: "clientId", Type: "uint256"},
		{Name: "forwarder", Type: "address"},
	},
}

// Signer produces approval signatures over relay requests with the service's
// sponsorship key. Signing is deterministic: the same request always yields
// the same signature.
type Signer struct {
	keypair *secp256k1.KeyPair
	chainID int64
}

// NewSigner loads the approval key from configuration. The key is hex-encoded
// with an optional 0x prefix.
func NewSigner(cfg config.SignerConfig, chainID int64) (*Signer, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(cfg.PrivateKeyHex, "0x"))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "approval key is not valid hex")
	}
	kp, err := secp256k1.NewSecp256k1KeyPair(raw)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cannot load approval key")
	}
	return &Signer{keypair: kp, chainID: chainID}, nil
}

// Address returns the signer's Ethereum address, the one the paymaster must
// be configured to trust.
func (s *Signer) Address() ethtypes.Address0xHex {
	return s.keypair.Address
}

// Sign computes the typed-data digest of the relay request and signs it,
// returning the 65-byte r||s||v signature the paymaster verifies.
func (s *Signer) Sign(ctx context.Context, req *relay.RelayRequest) (ethtypes.HexBytes0xPrefix, error) {
	digest, err := eip712.EncodeTypedDataV4(ctx, &eip712.TypedData{
		Types:       relayRequestTypes,
		PrimaryType: "RelayRequest",
		Domain: map[string]interface{}{
			"name":              "SponsoredRegistrarApproval",
			"version":           "1",
			"chainId":           s.chainID,
			"verifyingContract": req.RelayData.Paymaster,
		},
		Message: map[string]interface{}{
			"request": map[string]interface{}{
				"from":  req.Request.From,
				"to":    req.Request.To,
				"value": req.Request.Value,
				"gas":   req.Request.Gas,
				"nonce": req.Request.Nonce,
				"data":  req.Request.Data,
			},
			"relayData": map[string]interface{}{
				"gasPrice":      req.RelayData.GasPrice,
				"pctRelayFee":   req.RelayData.PctRelayFee,
				"baseRelayFee":  req.RelayData.BaseRelayFee,
				"relayWorker":   req.RelayData.RelayWorker,
				"paymaster":     req.RelayData.Paymaster,
				"paymasterData": req.RelayData.PaymasterData,
				"clientId":      req.RelayData.ClientID,
				"forwarder":     req.RelayData.Forwarder,
			},
		},
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "relay request cannot be encoded for signing")
	}

	sig, err := s.keypair.SignDirect(digest)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "signing failed")
	}
	return ethtypes.HexBytes0xPrefix(sig.CompactRSV()), nil
}
