// services/custody_client.go
package services

import (
	"bytes"
	"context"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"nft-treasury-service/utils"

	"github.com/golang-jwt/jwt/v5"
)

const (
	custodyPollInterval = 250 * time.Millisecond
	custodyJWTLifetime  = 30 * time.Second
	maxVaultPageLimit   = 500
)

// FireblocksClient is the signed-REST client against the custody provider.
// Every request carries the API key header plus a short-lived RS256 JWT
// whose bodyHash claim binds the exact bytes of the outbound body.
// Safe for concurrent use.
type FireblocksClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// WaitTimeout bounds WaitForTerminal. Zero means poll forever.
	WaitTimeout time.Duration

	apiKey string
	signer *requestSigner
}

func NewFireblocksClient(endpoint, apiKey, secretPath string, waitTimeout time.Duration) (*FireblocksClient, error) {
	pem, err := os.ReadFile(secretPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read custody secret %s: %w", secretPath, err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("failed to parse custody RSA key: %w", err)
	}

	return &FireblocksClient{
		BaseURL:     endpoint,
		WaitTimeout: waitTimeout,
		apiKey:      apiKey,
		signer:      &requestSigner{key: key, apiKey: apiKey},
		HTTPClient:  utils.HTTPClient,
	}, nil
}

// requestSigner mints the per-request JWT. The nonce is the nanosecond
// wall clock, forced strictly increasing across concurrent sign calls.
type requestSigner struct {
	key       *rsa.PrivateKey
	apiKey    string
	lastNonce atomic.Int64
}

func (s *requestSigner) nextNonce() (int64, error) {
	for {
		last := s.lastNonce.Load()
		nonce := time.Now().UnixNano()
		if nonce <= last {
			nonce = last + 1
		}
		if nonce <= 0 {
			return 0, fmt.Errorf("jwt nonce must be positive, got %d", nonce)
		}
		if s.lastNonce.CompareAndSwap(last, nonce) {
			return nonce, nil
		}
	}
}

// token signs the claims for one request. uri is the request path (with
// query), body the exact bytes that will go on the wire.
func (s *requestSigner) token(uri string, body []byte) (string, error) {
	nonce, err := s.nextNonce()
	if err != nil {
		return "", err
	}

	bodyHash := sha256.Sum256(body)
	now := time.Now().Unix()

	claims := jwt.MapClaims{
		"uri":      uri,
		"nonce":    nonce,
		"iat":      now,
		"exp":      now + int64(custodyJWTLifetime.Seconds()),
		"sub":      s.apiKey,
		"bodyHash": hex.EncodeToString(bodyHash[:]),
	}

	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
}

// do runs one signed request. The body is marshaled exactly once so the
// hashed bytes and the sent bytes can never diverge — the provider rejects
// any request whose body differs from the hash by a single byte.
func (c *FireblocksClient) do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode custody request body: %w", err)
		}
	}

	token, err := c.signer.token(path, payload)
	if err != nil {
		return fmt.Errorf("failed to sign custody request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build custody request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("custody request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("custody returned status %d for %s %s: %s", resp.StatusCode, method, path, string(snippet))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode custody response for %s %s: %w", method, path, err)
		}
	}
	return nil
}

// CreateVault provisions a new vault account at the provider.
func (c *FireblocksClient) CreateVault(ctx context.Context, name, customerRefID string, autoFuel, hiddenOnUI *bool) (*VaultAccount, error) {
	req := CreateVaultRequest{
		Name:          name,
		CustomerRefID: customerRefID,
		AutoFuel:      autoFuel,
		HiddenOnUI:    hiddenOnUI,
	}
	var vault VaultAccount
	if err := c.do(ctx, http.MethodPost, "/v1/vault/accounts", req, &vault); err != nil {
		return nil, err
	}
	return &vault, nil
}

// CreateWallet derives a per-asset wallet inside an existing vault.
func (c *FireblocksClient) CreateWallet(ctx context.Context, vaultID, assetID string, extras map[string]any) (*CreateWalletResponse, error) {
	path := fmt.Sprintf("/v1/vault/accounts/%s/%s", vaultID, assetID)
	body := any(extras)
	if extras == nil {
		body = map[string]any{}
	}
	var wallet CreateWalletResponse
	if err := c.do(ctx, http.MethodPost, path, body, &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (c *FireblocksClient) GetVault(ctx context.Context, vaultID string) (*VaultAccount, error) {
	var vault VaultAccount
	if err := c.do(ctx, http.MethodGet, "/v1/vault/accounts/"+vaultID, nil, &vault); err != nil {
		return nil, err
	}
	return &vault, nil
}

// ListVaults pages through vault accounts with optional filters.
func (c *FireblocksClient) ListVaults(ctx context.Context, filter VaultAccountsFilter) (*PagedVaultAccountsResponse, error) {
	q := url.Values{}
	if filter.NamePrefix != "" {
		q.Set("namePrefix", filter.NamePrefix)
	}
	if filter.NameSuffix != "" {
		q.Set("nameSuffix", filter.NameSuffix)
	}
	if filter.AssetID != "" {
		q.Set("assetId", filter.AssetID)
	}
	if filter.MinAmountThreshold != "" {
		q.Set("minAmountThreshold", filter.MinAmountThreshold)
	}
	if filter.OrderBy != "" {
		q.Set("orderBy", filter.OrderBy)
	}
	if filter.Limit > 0 {
		limit := filter.Limit
		if limit > maxVaultPageLimit {
			limit = maxVaultPageLimit
		}
		q.Set("limit", strconv.Itoa(limit))
	}
	if filter.Before != "" {
		q.Set("before", filter.Before)
	}
	if filter.After != "" {
		q.Set("after", filter.After)
	}

	path := "/v1/vault/accounts_paged"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page PagedVaultAccountsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *FireblocksClient) ListVaultAssets(ctx context.Context) ([]VaultAsset, error) {
	var assets []VaultAsset
	if err := c.do(ctx, http.MethodGet, "/v1/vault/assets", nil, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

func (c *FireblocksClient) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*CreateTransactionResponse, error) {
	var resp CreateTransactionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/transactions", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *FireblocksClient) GetTransaction(ctx context.Context, id string) (*TransactionDetails, error) {
	var details TransactionDetails
	if err := c.do(ctx, http.MethodGet, "/v1/transactions/"+id, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// ListTransactions returns transactions updated after the given time,
// newest first. Used by the reconciliation sweep.
func (c *FireblocksClient) ListTransactions(ctx context.Context, after time.Time, limit int) ([]TransactionDetails, error) {
	q := url.Values{}
	if !after.IsZero() {
		q.Set("after", strconv.FormatInt(after.UnixMilli(), 10))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	path := "/v1/transactions"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var details []TransactionDetails
	if err := c.do(ctx, http.MethodGet, path, nil, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// RawSigning submits a signing-only RAW transaction: amount zero, the
// serialized message hex in extraParameters.
func (c *FireblocksClient) RawSigning(ctx context.Context, assetID, vaultID, messageHex, note string) (*CreateTransactionResponse, error) {
	return c.CreateTransaction(ctx, CreateTransactionRequest{
		AssetID:   assetID,
		Operation: OperationRaw,
		Source:    TransferPeerPath{Type: PeerTypeVaultAccount, ID: vaultID},
		Amount:    "0",
		Note:      note,
		ExtraParameters: &ExtraParameters{
			RawMessageData: &RawMessageData{
				Messages: []RawMessage{{Content: messageHex}},
			},
		},
	})
}

// ContractCall submits an EVM contract invocation that the provider signs
// and broadcasts itself.
func (c *FireblocksClient) ContractCall(ctx context.Context, assetID, vaultID, contractAddress, dataHex, note string) (*CreateTransactionResponse, error) {
	return c.CreateTransaction(ctx, CreateTransactionRequest{
		AssetID:   assetID,
		Operation: OperationContractCall,
		Source:    TransferPeerPath{Type: PeerTypeVaultAccount, ID: vaultID},
		Destination: &DestinationTransferPeerPath{
			Type:           PeerTypeOneTimeAddress,
			OneTimeAddress: &OneTimeAddress{Address: contractAddress},
		},
		Amount: "0",
		Note:   note,
		ExtraParameters: &ExtraParameters{
			ContractCallData: dataHex,
		},
	})
}

// WaitForTerminal polls the transaction every 250ms until the provider
// reports a terminal status. Terminal failures (and a WaitTimeout expiry)
// come back as *CustodyTransactionFailedError so the caller can emit a
// failed result instead of erroring out.
func (c *FireblocksClient) WaitForTerminal(ctx context.Context, id string) (*TransactionDetails, error) {
	if c.WaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.WaitTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(custodyPollInterval)
	defer ticker.Stop()

	for {
		details, err := c.GetTransaction(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &CustodyTransactionFailedError{Status: "TIMEOUT"}
			}
			return nil, err
		}

		if IsFailedStatus(details.Status) {
			return nil, &CustodyTransactionFailedError{Status: details.Status}
		}
		if IsTerminalStatus(details.Status) {
			return details, nil
		}

		select {
		case <-ctx.Done():
			return nil, &CustodyTransactionFailedError{Status: "TIMEOUT"}
		case <-ticker.C:
		}
	}
}
