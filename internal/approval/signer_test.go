package approval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enspass/internal/platform/config"
	"enspass/internal/relay"
)

const testPrivateKey = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

func testRelayRequest() *relay.RelayRequest {
	return &relay.RelayRequest{
		Request: relay.ForwardRequest{
			From:  "0x1234567890abcdef1234567890abcdef12345678",
			To:    "0x283af0b28c62c092c9727f1ee09c02ca627eb7f5",
			Value: "0",
			Gas:   "200000",
			Nonce: "1",
			Data:  "0xf14fcbc800000000000000000000000000000000000000000000000000000000deadbeef",
		},
		RelayData: relay.RelayData{
			GasPrice:      "20000000000",
			PctRelayFee:   "70",
			BaseRelayFee:  "0",
			RelayWorker:   "0x2222222222222222222222222222222222222222",
			Paymaster:     "0x3333333333333333333333333333333333333333",
			PaymasterData: "0x",
			ClientID:      "1",
			Forwarder:     "0x4444444444444444444444444444444444444444",
		},
	}
}

func TestNewSignerRejectsBadKey(t *testing.T) {
	_, err := NewSigner(config.SignerConfig{PrivateKeyHex: "not-hex"}, 1)
	assert.Error(t, err)
}

func TestSignerAddress(t *testing.T) {
	signer, err := NewSigner(config.SignerConfig{PrivateKeyHex: testPrivateKey}, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, signer.Address().String())
}

func TestSignIsDeterministic(t *testing.T) {
	signer, err := NewSigner(config.SignerConfig{PrivateKeyHex: testPrivateKey}, 1)
	require.NoError(t, err)

	first, err := signer.Sign(context.Background(), testRelayRequest())
	require.NoError(t, err)
	second, err := signer.Sign(context.Background(), testRelayRequest())
	require.NoError(t, err)

	assert.Len(t, []byte(first), 65)
	assert.Equal(t, first, second)
}

func TestSignCommitsToRequestContents(t *testing.T) {
	signer, err := NewSigner(config.SignerConfig{PrivateKeyHex: testPrivateKey}, 1)
	require.NoError(t, err)

	base, err := signer.Sign(context.Background(), testRelayRequest())
	require.NoError(t, err)

	changed := testRelayRequest()
	changed.Request.Nonce = "2"
	other, err := signer.Sign(context.Background(), changed)
	require.NoError(t, err)

	assert.NotEqual(t, base, other)
}

func TestSignDiffersAcrossChains(t *testing.T) {
	mainnet, err := NewSigner(config.SignerConfig{PrivateKeyHex: testPrivateKey}, 1)
	require.NoError(t, err)
	testnet, err := NewSigner(config.SignerConfig{PrivateKeyHex: testPrivateKey}, 5)
	require.NoError(t, err)

	a, err := mainnet.Sign(context.Background(), testRelayRequest())
	require.NoError(t, err)
	b, err := testnet.Sign(context.Background(), testRelayRequest())
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSignRejectsMalformedRequest(t *testing.T) {
	signer, err := NewSigner(config.SignerConfig{PrivateKeyHex: testPrivateKey}, 1)
	require.NoError(t, err)

	bad := testRelayRequest()
	bad.Request.From = "not-an-address"

	_, err = signer.Sign(context.Background(), bad)
	assert.Error(t, err)
}
