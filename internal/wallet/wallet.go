package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/xyrille1/SuiCare/internal/ledger"
	"golang.org/x/crypto/blake2b"
)

// Ed25519 签名方案标识
const ed25519Flag byte = 0x00

// 交易签名意图前缀: TransactionData / V0 / Sui
var transactionIntent = []byte{0, 0, 0}

// ErrInvalidKey 私钥格式错误
var ErrInvalidKey = errors.New("invalid signer key")

// Wallet 钱包边界：当前账户与签名提交
type Wallet interface {
	// Address 返回当前连接的账户地址，未连接时为空
	Address() string
	SignAndSubmit(ctx context.Context, txBytes string) (*ledger.TransactionResponse, error)
}

// Submitter 提交已签名交易
type Submitter interface {
	ExecuteTransaction(ctx context.Context, txBytes string, signatures []string) (*ledger.TransactionResponse, error)
}

// Disconnected 未连接的钱包
type Disconnected struct{}

func (Disconnected) Address() string { return "" }

func (Disconnected) SignAndSubmit(context.Context, string) (*ledger.TransactionResponse, error) {
	return nil, errors.New("wallet not connected")
}

// KeyWallet 使用本地 Ed25519 私钥签名的钱包
type KeyWallet struct {
	key       ed25519.PrivateKey
	address   string
	submitter Submitter
}

// NewKeyWallet 创建本地私钥钱包
func NewKeyWallet(encodedKey string, submitter Submitter) (*KeyWallet, error) {
	key, err := ParsePrivateKey(encodedKey)
	if err != nil {
		return nil, err
	}
	return &KeyWallet{
		key:       key,
		address:   AddressFromPublicKey(key.Public().(ed25519.PublicKey)),
		submitter: submitter,
	}, nil
}

// ParsePrivateKey 解析私钥
// 支持 sui.keystore 格式 base64(flag || seed)、base64(seed) 以及 0x 前缀的十六进制 seed
func ParsePrivateKey(s string) (ed25519.PrivateKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidKey)
	}

	var raw []byte
	if strings.HasPrefix(s, "0x") {
		b, err := hex.DecodeString(s[2:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		raw = b
	} else {
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		raw = b
	}

	switch len(raw) {
	case ed25519.SeedSize:
	case ed25519.SeedSize + 1:
		if raw[0] != ed25519Flag {
			return nil, fmt.Errorf("%w: unsupported signature scheme flag 0x%02x", ErrInvalidKey, raw[0])
		}
		raw = raw[1:]
	default:
		return nil, fmt.Errorf("%w: unexpected length %d", ErrInvalidKey, len(raw))
	}
	return ed25519.NewKeyFromSeed(raw), nil
}

// AddressFromPublicKey 地址 = blake2b-256(flag || pubkey)
func AddressFromPublicKey(pub ed25519.PublicKey) string {
	sum := blake2b.Sum256(append([]byte{ed25519Flag}, pub...))
	return "0x" + hex.EncodeToString(sum[:])
}

// Address 账户地址
func (w *KeyWallet) Address() string {
	return w.address
}

// Sign 对交易字节签名，返回 base64(flag || sig || pubkey)
func (w *KeyWallet) Sign(txBytes string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(txBytes)
	if err != nil {
		return "", fmt.Errorf("invalid transaction bytes: %w", err)
	}

	msg := make([]byte, 0, len(transactionIntent)+len(data))
	msg = append(msg, transactionIntent...)
	msg = append(msg, data...)
	digest := blake2b.Sum256(msg)

	sig := ed25519.Sign(w.key, digest[:])
	pub := w.key.Public().(ed25519.PublicKey)

	out := make([]byte, 0, 1+len(sig)+len(pub))
	out = append(out, ed25519Flag)
	out = append(out, sig...)
	out = append(out, pub...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// SignAndSubmit 签名并提交交易
func (w *KeyWallet) SignAndSubmit(ctx context.Context, txBytes string) (*ledger.TransactionResponse, error) {
	sig, err := w.Sign(txBytes)
	if err != nil {
		return nil, err
	}

	resp, err := w.submitter.ExecuteTransaction(ctx, txBytes, []string{sig})
	if err != nil {
		return nil, err
	}
	if resp.Failed() {
		return resp, fmt.Errorf("transaction %s failed on chain: %s", resp.Digest, resp.Effects.Status.Error)
	}
	return resp, nil
}
