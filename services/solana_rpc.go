// services/solana_rpc.go
package services

import (
	"context"
	"encoding/base64"

	"github.com/gagliardetto/solana-go/rpc"
)

// SolanaBroadcaster submits a fully-signed wire transaction to a chain RPC
// node and returns the base58 transaction signature.
type SolanaBroadcaster interface {
	SendRawTransaction(ctx context.Context, tx []byte) (string, error)
}

// SolanaRPC is the JSON-RPC broadcaster used by the webhook path.
type SolanaRPC struct {
	client *rpc.Client
}

func NewSolanaRPC(endpoint string) *SolanaRPC {
	return &SolanaRPC{client: rpc.New(endpoint)}
}

func (r *SolanaRPC) SendRawTransaction(ctx context.Context, tx []byte) (string, error) {
	sig, err := r.client.SendEncodedTransaction(ctx, base64.StdEncoding.EncodeToString(tx))
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}
