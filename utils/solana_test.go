package utils

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/mr-tron/base58"
)

func TestIsEd25519PublicKey(t *testing.T) {
	pubkey := base58.Encode(bytes.Repeat([]byte{7}, Ed25519PublicKeyLen))
	if !IsEd25519PublicKey(pubkey) {
		t.Errorf("expected %s to be recognized as a public key", pubkey)
	}

	signature := base58.Encode(bytes.Repeat([]byte{7}, Ed25519SignatureLen))
	if IsEd25519PublicKey(signature) {
		t.Error("64-byte signature must not be recognized as a public key")
	}

	if IsEd25519PublicKey("not-base58-0OIl") {
		t.Error("invalid base58 must not be recognized as a public key")
	}
	if IsEd25519PublicKey("") {
		t.Error("empty string must not be recognized as a public key")
	}
}

func TestDecodeFullSignatureRoundTrip(t *testing.T) {
	raw := make([]byte, Ed25519SignatureLen)
	for i := range raw {
		raw[i] = byte(i)
	}
	fullSigHex := hex.EncodeToString(raw)

	sig, err := DecodeFullSignature(fullSigHex)
	if err != nil {
		t.Fatalf("DecodeFullSignature failed: %v", err)
	}

	// hex → bytes[64] → base58 → bytes[64] → hex must be identity
	back, err := DecodeBase58Signature(sig)
	if err != nil {
		t.Fatalf("DecodeBase58Signature failed: %v", err)
	}
	if hex.EncodeToString(back) != fullSigHex {
		t.Errorf("round trip mismatch: got %s want %s", hex.EncodeToString(back), fullSigHex)
	}

	// base58 of a 64-byte signature is 87 or 88 characters
	if len(sig) != 87 && len(sig) != 88 {
		t.Errorf("expected base58 signature of 87 or 88 chars, got %d", len(sig))
	}
}

func TestDecodeFullSignatureRejectsBadInput(t *testing.T) {
	if _, err := DecodeFullSignature("zz"); err == nil {
		t.Error("expected error for non-hex input")
	}
	if _, err := DecodeFullSignature(hex.EncodeToString(make([]byte, 32))); err == nil {
		t.Error("expected error for 32-byte signature")
	}
}

func TestAppendCompactU16(t *testing.T) {
	cases := []struct {
		n    int
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{16383, []byte{0xff, 0x7f}},
		{16384, []byte{0x80, 0x80, 0x01}},
	}
	for _, tc := range cases {
		got := AppendCompactU16(nil, tc.n)
		if !bytes.Equal(got, tc.want) {
			t.Errorf("AppendCompactU16(%d) = %x, want %x", tc.n, got, tc.want)
		}
	}
}

func TestBuildRawTransaction(t *testing.T) {
	sig1 := bytes.Repeat([]byte{0xaa}, Ed25519SignatureLen)
	sig2 := bytes.Repeat([]byte{0xbb}, Ed25519SignatureLen)
	message := []byte{1, 2, 3, 4}

	raw, err := BuildRawTransaction([][]byte{sig1, sig2}, message)
	if err != nil {
		t.Fatalf("BuildRawTransaction failed: %v", err)
	}

	if raw[0] != 2 {
		t.Errorf("expected signature count 2, got %d", raw[0])
	}
	if !bytes.Equal(raw[1:65], sig1) {
		t.Error("first signature not at expected offset")
	}
	if !bytes.Equal(raw[65:129], sig2) {
		t.Error("second signature not at expected offset")
	}
	if !bytes.Equal(raw[129:], message) {
		t.Error("message bytes not appended verbatim")
	}
}

func TestBuildRawTransactionRejectsShortSignature(t *testing.T) {
	if _, err := BuildRawTransaction([][]byte{{1, 2, 3}}, []byte{0}); err == nil {
		t.Error("expected error for short signature")
	}
}
