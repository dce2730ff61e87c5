// utils/solana.go
package utils

import (
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
)

const (
	Ed25519PublicKeyLen = 32
	Ed25519SignatureLen = 64
)

// IsEd25519PublicKey reports whether the base58 string decodes to exactly
// 32 bytes. That is how signer slots are told apart from pre-supplied
// signatures (64 bytes) in a pending transaction.
func IsEd25519PublicKey(s string) bool {
	raw, err := base58.Decode(s)
	return err == nil && len(raw) == Ed25519PublicKeyLen
}

// DecodeFullSignature turns the custody provider's hex full_sig into the
// base58 Solana signature string. The hex must decode to exactly 64 bytes.
func DecodeFullSignature(fullSigHex string) (string, error) {
	raw, err := hex.DecodeString(fullSigHex)
	if err != nil {
		return "", fmt.Errorf("full_sig is not valid hex: %w", err)
	}
	if len(raw) != Ed25519SignatureLen {
		return "", fmt.Errorf("expected %d-byte ed25519 signature, got %d bytes", Ed25519SignatureLen, len(raw))
	}
	return base58.Encode(raw), nil
}

// DecodeBase58Signature is the inverse: base58 signature string to its 64
// raw bytes.
func DecodeBase58Signature(sig string) ([]byte, error) {
	raw, err := base58.Decode(sig)
	if err != nil {
		return nil, fmt.Errorf("signature is not valid base58: %w", err)
	}
	if len(raw) != Ed25519SignatureLen {
		return nil, fmt.Errorf("expected %d-byte ed25519 signature, got %d bytes", Ed25519SignatureLen, len(raw))
	}
	return raw, nil
}

// AppendCompactU16 appends n in Solana's compact-u16 (shortvec) encoding.
func AppendCompactU16(buf []byte, n int) []byte {
	for {
		if n < 0x80 {
			return append(buf, byte(n))
		}
		buf = append(buf, byte(n&0x7f)|0x80)
		n >>= 7
	}
}

// BuildRawTransaction assembles a wire-format Solana transaction from
// already-produced signatures and the serialized message: compact-u16
// signature count, then the 64-byte signatures in order, then the message
// bytes verbatim. Positional order of the signatures is preserved — it must
// line up with the account keys inside the message.
func BuildRawTransaction(signatures [][]byte, message []byte) ([]byte, error) {
	buf := AppendCompactU16(nil, len(signatures))
	for i, sig := range signatures {
		if len(sig) != Ed25519SignatureLen {
			return nil, fmt.Errorf("signature %d is %d bytes, want %d", i, len(sig), Ed25519SignatureLen)
		}
		buf = append(buf, sig...)
	}
	return append(buf, message...), nil
}
