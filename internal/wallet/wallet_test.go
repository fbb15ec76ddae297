package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyrille1/SuiCare/internal/ledger"
	"golang.org/x/crypto/blake2b"
)

type recordingSubmitter struct {
	txBytes string
	sigs    []string
	resp    *ledger.TransactionResponse
	err     error
}

func (s *recordingSubmitter) ExecuteTransaction(_ context.Context, txBytes string, sigs []string) (*ledger.TransactionResponse, error) {
	s.txBytes, s.sigs = txBytes, sigs
	return s.resp, s.err
}

func seed() []byte {
	b := make([]byte, ed25519.SeedSize)
	for i := range b {
		b[i] = byte(i + 1)
	}
	return b
}

func TestParsePrivateKeyFormats(t *testing.T) {
	want := ed25519.NewKeyFromSeed(seed())

	keystore := base64.StdEncoding.EncodeToString(append([]byte{0x00}, seed()...))
	k, err := ParsePrivateKey(keystore)
	require.NoError(t, err)
	assert.Equal(t, want, k)

	k, err = ParsePrivateKey(base64.StdEncoding.EncodeToString(seed()))
	require.NoError(t, err)
	assert.Equal(t, want, k)

	k, err = ParsePrivateKey("0x0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")
	require.NoError(t, err)
	assert.Equal(t, want, k)
}

func TestParsePrivateKeyRejectsBadInput(t *testing.T) {
	for _, in := range []string{
		"",
		"not-base64!",
		base64.StdEncoding.EncodeToString([]byte{1, 2, 3}),
		base64.StdEncoding.EncodeToString(append([]byte{0x01}, seed()...)),
	} {
		_, err := ParsePrivateKey(in)
		assert.True(t, errors.Is(err, ErrInvalidKey), in)
	}
}

func TestKeyWalletAddress(t *testing.T) {
	w, err := NewKeyWallet(base64.StdEncoding.EncodeToString(seed()), nil)
	require.NoError(t, err)

	pub := ed25519.NewKeyFromSeed(seed()).Public().(ed25519.PublicKey)
	sum := blake2b.Sum256(append([]byte{0x00}, pub...))
	assert.True(t, strings.HasPrefix(w.Address(), "0x"))
	assert.Len(t, w.Address(), 66)
	assert.True(t, ledger.SameAddress(w.Address(), "0x"+strings.ToUpper(w.Address()[2:])))
	assert.Equal(t, hex.EncodeToString(sum[:]), w.Address()[2:])
}

func TestSignProducesVerifiableSignature(t *testing.T) {
	w, err := NewKeyWallet(base64.StdEncoding.EncodeToString(seed()), nil)
	require.NoError(t, err)

	txBytes := base64.StdEncoding.EncodeToString([]byte("transaction-data"))
	sigB64, err := w.Sign(txBytes)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sigB64)
	require.NoError(t, err)
	require.Len(t, raw, 1+ed25519.SignatureSize+ed25519.PublicKeySize)
	assert.Equal(t, byte(0x00), raw[0])

	sig := raw[1 : 1+ed25519.SignatureSize]
	pub := ed25519.PublicKey(raw[1+ed25519.SignatureSize:])
	digest := blake2b.Sum256(append([]byte{0, 0, 0}, []byte("transaction-data")...))
	assert.True(t, ed25519.Verify(pub, digest[:], sig))
}

func TestSignAndSubmit(t *testing.T) {
	sub := &recordingSubmitter{resp: &ledger.TransactionResponse{Digest: "digest-1"}}
	w, err := NewKeyWallet(base64.StdEncoding.EncodeToString(seed()), sub)
	require.NoError(t, err)

	txBytes := base64.StdEncoding.EncodeToString([]byte("tx"))
	resp, err := w.SignAndSubmit(context.Background(), txBytes)
	require.NoError(t, err)
	assert.Equal(t, "digest-1", resp.Digest)
	assert.Equal(t, txBytes, sub.txBytes)
	assert.Len(t, sub.sigs, 1)
}

func TestSignAndSubmitOnChainFailure(t *testing.T) {
	sub := &recordingSubmitter{resp: &ledger.TransactionResponse{
		Digest:  "digest-2",
		Effects: &ledger.TransactionEffects{Status: ledger.ExecutionStatus{Status: "failure", Error: "InsufficientGas"}},
	}}
	w, err := NewKeyWallet(base64.StdEncoding.EncodeToString(seed()), sub)
	require.NoError(t, err)

	_, err = w.SignAndSubmit(context.Background(), base64.StdEncoding.EncodeToString([]byte("tx")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InsufficientGas")
}

func TestDisconnected(t *testing.T) {
	var w Wallet = Disconnected{}
	assert.Empty(t, w.Address())
	_, err := w.SignAndSubmit(context.Background(), "")
	assert.Error(t, err)
}
