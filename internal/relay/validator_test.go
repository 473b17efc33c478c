package relay

import (
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRegistrar = "0x283Af0B28c62C092C9727F1Ee09c02CA627EB7F5"
	testOwner     = "0x1234567890abcdef1234567890abcdef12345678"
	testSecret    = "0x0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"
)

func newTestValidator() *Validator {
	return NewValidator(testRegistrar, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func encodeRegister(t *testing.T, domain string) string {
	t.Helper()
	data, err := registerABI.EncodeCallDataValuesCtx(context.Background(),
		[]interface{}{domain, testOwner, "31536000", testSecret})
	require.NoError(t, err)
	return "0x" + hex.EncodeToString(data)
}

func encodeRegisterWithConfig(t *testing.T, domain string) string {
	t.Helper()
	data, err := registerWithConfigABI.EncodeCallDataValuesCtx(context.Background(),
		[]interface{}{domain, testOwner, "31536000", testSecret, testOwner, testOwner})
	require.NoError(t, err)
	return "0x" + hex.EncodeToString(data)
}

func relayRequestFor(data string) *RelayRequest {
	return &RelayRequest{
		Request: ForwardRequest{
			From:  testOwner,
			To:    testRegistrar,
			Value: "0",
			Gas:   "200000",
			Nonce: "1",
			Data:  data,
		},
	}
}

func TestVerifyRegisterMatchingDomain(t *testing.T) {
	v := newTestValidator()

	result := v.Verify(context.Background(), "mydomain", relayRequestFor(encodeRegister(t, "mydomain")))

	assert.True(t, result.Valid)
	assert.False(t, result.Commitment)
}

func TestVerifyRegisterWithConfigMatchingDomain(t *testing.T) {
	v := newTestValidator()

	result := v.Verify(context.Background(), "mydomain", relayRequestFor(encodeRegisterWithConfig(t, "mydomain")))

	assert.True(t, result.Valid)
	assert.False(t, result.Commitment)
}

func TestVerifyDomainComparisonIsCaseInsensitive(t *testing.T) {
	v := newTestValidator()

	result := v.Verify(context.Background(), "MyDomain", relayRequestFor(encodeRegister(t, "mydomain")))

	assert.True(t, result.Valid)
}

func TestVerifyRejectsWrongDomain(t *testing.T) {
	v := newTestValidator()

	result := v.Verify(context.Background(), "mydomain", relayRequestFor(encodeRegister(t, "otherdomain")))

	assert.False(t, result.Valid)
}

func TestVerifyRejectsWrongContract(t *testing.T) {
	v := newTestValidator()
	req := relayRequestFor(encodeRegister(t, "mydomain"))
	req.Request.To = testOwner

	result := v.Verify(context.Background(), "mydomain", req)

	assert.False(t, result.Valid)
}

func TestVerifyContractComparisonIsCaseInsensitive(t *testing.T) {
	v := NewValidator("0x283af0b28c62c092c9727f1ee09c02ca627eb7f5", slog.New(slog.NewTextHandler(io.Discard, nil)))

	result := v.Verify(context.Background(), "mydomain", relayRequestFor(encodeRegister(t, "mydomain")))

	assert.True(t, result.Valid)
}

func TestVerifyAcceptsCommitmentWithoutPayloadCheck(t *testing.T) {
	v := newTestValidator()
	// Arbitrary 32-byte commitment payload, deliberately unrelated to any domain.
	data := commitSelector + "00000000000000000000000000000000000000000000000000000000deadbeef"

	result := v.Verify(context.Background(), "mydomain", relayRequestFor(data))

	assert.True(t, result.Valid)
	assert.True(t, result.Commitment)
}

func TestVerifyRejectsUnknownSelector(t *testing.T) {
	v := newTestValidator()

	result := v.Verify(context.Background(), "mydomain", relayRequestFor("0xdeadbeef"))

	assert.False(t, result.Valid)
}

func TestVerifyRejectsMalformedCalldata(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"no prefix", "85f6d15500"},
		{"too short", "0x85f6"},
		{"not hex", registerSelector + "zzzz"},
		{"truncated arguments", registerSelector + "0011"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := v.Verify(context.Background(), "mydomain", relayRequestFor(tc.data))
			assert.False(t, result.Valid)
		})
	}
}

func TestVerifyNilRequest(t *testing.T) {
	v := newTestValidator()

	result := v.Verify(context.Background(), "mydomain", nil)

	assert.False(t, result.Valid)
}
