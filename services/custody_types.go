// services/custody_types.go
package services

// Wire types for the custody provider's REST API (Fireblocks-style).
// Field names follow the provider's camelCase JSON.

// Transaction statuses reported by the provider.
const (
	TxStatusSubmitted                     = "SUBMITTED"
	TxStatusQueued                        = "QUEUED"
	TxStatusBroadcasting                  = "BROADCASTING"
	TxStatusConfirming                    = "CONFIRMING"
	TxStatusPendingSignature              = "PENDING_SIGNATURE"
	TxStatusPendingAuthorization          = "PENDING_AUTHORIZATION"
	TxStatusPending3rdParty               = "PENDING_3RD_PARTY"
	TxStatusPending3rdPartyManualApproval = "PENDING_3RD_PARTY_MANUAL_APPROVAL"
	TxStatusPendingAmlScreening           = "PENDING_AML_SCREENING"
	TxStatusPartiallyCompleted            = "PARTIALLY_COMPLETED"
	TxStatusPending                       = "PENDING"

	TxStatusCompleted = "COMPLETED"
	TxStatusFailed    = "FAILED"
	TxStatusCancelled = "CANCELLED"
	TxStatusRejected  = "REJECTED"
	TxStatusBlocked   = "BLOCKED"
)

// Operations.
const (
	OperationRaw          = "RAW"
	OperationContractCall = "CONTRACT_CALL"
)

// Peer types.
const (
	PeerTypeVaultAccount   = "VAULT_ACCOUNT"
	PeerTypeOneTimeAddress = "ONE_TIME_ADDRESS"
)

// IsTerminalStatus reports whether the provider will not move the
// transaction any further.
func IsTerminalStatus(status string) bool {
	switch status {
	case TxStatusCompleted, TxStatusFailed, TxStatusCancelled, TxStatusRejected, TxStatusBlocked:
		return true
	}
	return false
}

// IsFailedStatus reports a terminal failure.
func IsFailedStatus(status string) bool {
	switch status {
	case TxStatusFailed, TxStatusCancelled, TxStatusRejected, TxStatusBlocked:
		return true
	}
	return false
}

type VaultAsset struct {
	ID        string `json:"id"`
	Total     string `json:"total,omitempty"`
	Available string `json:"available,omitempty"`
	Pending   string `json:"pending,omitempty"`
}

type VaultAccount struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	CustomerRefID string       `json:"customerRefId,omitempty"`
	HiddenOnUI    bool         `json:"hiddenOnUI,omitempty"`
	AutoFuel      bool         `json:"autoFuel,omitempty"`
	Assets        []VaultAsset `json:"assets,omitempty"`
}

type CreateVaultRequest struct {
	Name          string `json:"name"`
	CustomerRefID string `json:"customerRefId,omitempty"`
	AutoFuel      *bool  `json:"autoFuel,omitempty"`
	HiddenOnUI    *bool  `json:"hiddenOnUI,omitempty"`
}

type CreateWalletResponse struct {
	ID            string `json:"id"`
	Address       string `json:"address"`
	LegacyAddress string `json:"legacyAddress,omitempty"`
	Tag           string `json:"tag,omitempty"`
}

// VaultAccountsFilter narrows the paged vault listing. Limit is clamped to
// the provider's maximum of 500.
type VaultAccountsFilter struct {
	NamePrefix         string
	NameSuffix         string
	AssetID            string
	MinAmountThreshold string
	OrderBy            string
	Limit              int
	Before             string
	After              string
}

type VaultAccountsPaging struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

type PagedVaultAccountsResponse struct {
	Accounts    []VaultAccount      `json:"accounts"`
	Paging      VaultAccountsPaging `json:"paging"`
	PreviousURL string              `json:"previousUrl,omitempty"`
	NextURL     string              `json:"nextUrl,omitempty"`
}

type TransferPeerPath struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type OneTimeAddress struct {
	Address string `json:"address"`
}

type DestinationTransferPeerPath struct {
	Type           string          `json:"type"`
	ID             string          `json:"id,omitempty"`
	OneTimeAddress *OneTimeAddress `json:"oneTimeAddress,omitempty"`
}

type RawMessage struct {
	Content string `json:"content"` // hex of the serialized message
}

type RawMessageData struct {
	Messages []RawMessage `json:"messages"`
}

type ExtraParameters struct {
	RawMessageData   *RawMessageData `json:"rawMessageData,omitempty"`
	ContractCallData string          `json:"contractCallData,omitempty"`
}

type CreateTransactionRequest struct {
	AssetID         string                       `json:"assetId"`
	Operation       string                       `json:"operation"`
	Source          TransferPeerPath             `json:"source"`
	Destination     *DestinationTransferPeerPath `json:"destination,omitempty"`
	Amount          string                       `json:"amount"`
	Note            string                       `json:"note,omitempty"`
	ExtraParameters *ExtraParameters             `json:"extraParameters,omitempty"`
}

type CreateTransactionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type SignatureDetail struct {
	FullSig string  `json:"fullSig,omitempty"`
	R       string  `json:"r,omitempty"`
	S       string  `json:"s,omitempty"`
	V       *uint64 `json:"v,omitempty"`
}

type SignedMessage struct {
	Content        string          `json:"content"`
	Algorithm      string          `json:"algorithm,omitempty"`
	DerivationPath []uint64        `json:"derivationPath,omitempty"`
	Signature      SignatureDetail `json:"signature"`
	PublicKey      string          `json:"publicKey,omitempty"`
}

type TransactionDetails struct {
	ID             string          `json:"id"`
	AssetID        string          `json:"assetId"`
	Status         string          `json:"status"`
	SubStatus      string          `json:"subStatus,omitempty"`
	Operation      string          `json:"operation,omitempty"`
	Note           string          `json:"note,omitempty"`
	TxHash         string          `json:"txHash,omitempty"`
	SignedMessages []SignedMessage `json:"signedMessages,omitempty"`
	CreatedAt      int64           `json:"createdAt,omitempty"`
	LastUpdated    int64           `json:"lastUpdated,omitempty"`
}
