// events/outbound.go
package events

// Outbound treasury event schema. Same tagged-union shape as the inbound
// families: a kind enum plus one payload pointer per payload family.

type TreasuryEventKind string

const (
	// Solana signing results (one per inbound signing request kind).
	SolanaCreateDropSigned                TreasuryEventKind = "solana_create_drop_signed"
	SolanaRetryCreateDropSigned           TreasuryEventKind = "solana_retry_create_drop_signed"
	SolanaUpdateDropSigned                TreasuryEventKind = "solana_update_drop_signed"
	SolanaMintDropSigned                  TreasuryEventKind = "solana_mint_drop_signed"
	SolanaRetryMintDropSigned             TreasuryEventKind = "solana_retry_mint_drop_signed"
	SolanaTransferAssetSigned             TreasuryEventKind = "solana_transfer_asset_signed"
	SolanaCreateCollectionSigned          TreasuryEventKind = "solana_create_collection_signed"
	SolanaRetryCreateCollectionSigned     TreasuryEventKind = "solana_retry_create_collection_signed"
	SolanaUpdateCollectionSigned          TreasuryEventKind = "solana_update_collection_signed"
	SolanaUpdateCollectionMintSigned      TreasuryEventKind = "solana_update_collection_mint_signed"
	SolanaRetryUpdateCollectionMintSigned TreasuryEventKind = "solana_retry_update_collection_mint_signed"
	SolanaMintToCollectionSigned          TreasuryEventKind = "solana_mint_to_collection_signed"
	SolanaRetryMintToCollectionSigned     TreasuryEventKind = "solana_retry_mint_to_collection_signed"
	SolanaSwitchCollectionSigned          TreasuryEventKind = "solana_switch_collection_signed"

	// Polygon submissions.
	PolygonCreateDropSubmitted           TreasuryEventKind = "polygon_create_drop_submitted"
	PolygonRetryCreateDropSubmitted      TreasuryEventKind = "polygon_retry_create_drop_submitted"
	PolygonMintDropSubmitted             TreasuryEventKind = "polygon_mint_drop_submitted"
	PolygonUpdateDropSubmitted           TreasuryEventKind = "polygon_update_drop_submitted"
	PolygonRetryMintDropSubmitted        TreasuryEventKind = "polygon_retry_mint_drop_submitted"
	PolygonTransferAssetSubmitted        TreasuryEventKind = "polygon_transfer_asset_submitted"
	PolygonPermitTransferTokenHashSigned TreasuryEventKind = "polygon_permit_transfer_token_hash_signed"

	// Provisioning.
	CustomerTreasuryCreated TreasuryEventKind = "customer_treasury_created"
	ProjectWalletCreated    TreasuryEventKind = "project_wallet_created"

	// Webhook broadcast terminals (Solana transactions submitted on-chain).
	DropCreated TreasuryEventKind = "drop_created"
	DropMinted  TreasuryEventKind = "drop_minted"
)

type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// SolanaTransactionResult is the outcome of a Solana RAW signing request.
// SignedMessageSignatures preserves the positional order of the inbound
// signatures_or_signers_public_keys list with every public-key slot replaced
// by its base58 signature.
type SolanaTransactionResult struct {
	SerializedMessage       []byte            `json:"serialized_message,omitempty"`
	SignedMessageSignatures []string          `json:"signed_message_signatures"`
	Status                  TransactionStatus `json:"status"`
}

// PolygonTransactionResult is the outcome of a Polygon contract call.
// Hash is nil when the custody transaction terminated in failure.
type PolygonTransactionResult struct {
	Hash            *string           `json:"hash,omitempty"`
	Status          TransactionStatus `json:"status"`
	ContractAddress string            `json:"contract_address"`
	EditionID       uint64            `json:"edition_id"`
}

// EcdsaSignature is a recoverable secp256k1 signature. V is the Ethereum
// recovery id (raw custody v + 27).
type EcdsaSignature struct {
	R []byte `json:"r"`
	S []byte `json:"s"`
	V uint8  `json:"v"`
}

type PolygonPermitHashSignature struct {
	Signature EcdsaSignature `json:"signature"`
	Owner     string         `json:"owner"`
	Spender   string         `json:"spender"`
	Recipient string         `json:"recipient"`
	EditionID uint64         `json:"edition_id"`
	Amount    uint64         `json:"amount"`
}

type CustomerTreasury struct {
	CustomerID string `json:"customer_id"`
	ProjectID  string `json:"project_id"`
}

type ProjectWallet struct {
	ProjectID     string `json:"project_id"`
	WalletAddress string `json:"wallet_address"`
	Blockchain    string `json:"blockchain"`
}

// MintTransaction is the webhook-path terminal payload: the on-chain
// transaction signature after broadcast, or status FAILED if the RPC
// submission did not go through.
type MintTransaction struct {
	TxSignature string `json:"tx_signature,omitempty"`
	Status      string `json:"status"`
}

type TreasuryEvent struct {
	Kind                TreasuryEventKind           `json:"kind"`
	SolanaTransaction   *SolanaTransactionResult    `json:"solana_transaction,omitempty"`
	PolygonTransaction  *PolygonTransactionResult   `json:"polygon_transaction,omitempty"`
	PermitHashSignature *PolygonPermitHashSignature `json:"permit_hash_signature,omitempty"`
	CustomerTreasury    *CustomerTreasury           `json:"customer_treasury,omitempty"`
	ProjectWallet       *ProjectWallet              `json:"project_wallet,omitempty"`
	MintTransaction     *MintTransaction            `json:"mint_transaction,omitempty"`
}

type TreasuryEnvelope struct {
	Key   TreasuryEventKey `json:"key"`
	Event TreasuryEvent    `json:"event"`
}

// solanaSignedKinds maps each inbound Solana signing request to its signed
// result variant.
var solanaSignedKinds = map[SolanaEventKind]TreasuryEventKind{
	SolanaCreateDrop:                SolanaCreateDropSigned,
	SolanaRetryCreateDrop:           SolanaRetryCreateDropSigned,
	SolanaUpdateDrop:                SolanaUpdateDropSigned,
	SolanaMintDrop:                  SolanaMintDropSigned,
	SolanaRetryMintDrop:             SolanaRetryMintDropSigned,
	SolanaTransferAsset:             SolanaTransferAssetSigned,
	SolanaCreateCollection:          SolanaCreateCollectionSigned,
	SolanaRetryCreateCollection:     SolanaRetryCreateCollectionSigned,
	SolanaUpdateCollection:          SolanaUpdateCollectionSigned,
	SolanaUpdateCollectionMint:      SolanaUpdateCollectionMintSigned,
	SolanaRetryUpdateCollectionMint: SolanaRetryUpdateCollectionMintSigned,
	SolanaMintToCollection:          SolanaMintToCollectionSigned,
	SolanaRetryMintToCollection:     SolanaRetryMintToCollectionSigned,
	SolanaSwitchCollection:          SolanaSwitchCollectionSigned,
}

// SolanaSignedKind returns the outbound variant for an inbound Solana
// signing request kind. The second return is false for unknown kinds.
func SolanaSignedKind(kind SolanaEventKind) (TreasuryEventKind, bool) {
	out, ok := solanaSignedKinds[kind]
	return out, ok
}

var polygonSubmittedKinds = map[PolygonEventKind]TreasuryEventKind{
	PolygonSubmitCreateDropTxn:      PolygonCreateDropSubmitted,
	PolygonSubmitRetryCreateDropTxn: PolygonRetryCreateDropSubmitted,
	PolygonSubmitMintDropTxn:        PolygonMintDropSubmitted,
	PolygonSubmitUpdateDropTxn:      PolygonUpdateDropSubmitted,
	PolygonSubmitRetryMintDropTxn:   PolygonRetryMintDropSubmitted,
}

// PolygonSubmittedKind returns the outbound variant for an inbound Polygon
// contract-call submission kind.
func PolygonSubmittedKind(kind PolygonEventKind) (TreasuryEventKind, bool) {
	out, ok := polygonSubmittedKinds[kind]
	return out, ok
}
