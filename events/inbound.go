// events/inbound.go
package events

// Inbound bus schema. Each event family is a closed sum: a kind enum plus
// one optional payload pointer per shape. Exactly one payload is set for a
// given kind — dispatch always switches on the kind tag, never on which
// pointer happens to be non-nil.

// --- Customers.* ---

type CustomerEventKind string

const (
	CustomerCreated CustomerEventKind = "created"
)

type Customer struct {
	ProjectID string `json:"project_id"`
}

type CustomerEvent struct {
	Kind     CustomerEventKind `json:"kind"`
	Customer *Customer         `json:"customer,omitempty"`
}

type CustomerEnvelope struct {
	Key   CustomerEventKey `json:"key"`
	Event CustomerEvent    `json:"event"`
}

// --- Organizations.* ---

type OrganizationEventKind string

const (
	OrganizationProjectCreated OrganizationEventKind = "project_created"
)

type Project struct {
	ID string `json:"id"`
}

type OrganizationEvent struct {
	Kind    OrganizationEventKind `json:"kind"`
	Project *Project              `json:"project,omitempty"`
}

type OrganizationEnvelope struct {
	Key   OrganizationEventKey `json:"key"`
	Event OrganizationEvent    `json:"event"`
}

// --- Solana.* signing requests ---

type SolanaEventKind string

const (
	SolanaCreateDrop                SolanaEventKind = "create_drop"
	SolanaRetryCreateDrop           SolanaEventKind = "retry_create_drop"
	SolanaUpdateDrop                SolanaEventKind = "update_drop"
	SolanaMintDrop                  SolanaEventKind = "mint_drop"
	SolanaRetryMintDrop             SolanaEventKind = "retry_mint_drop"
	SolanaTransferAsset             SolanaEventKind = "transfer_asset"
	SolanaCreateCollection          SolanaEventKind = "create_collection"
	SolanaRetryCreateCollection     SolanaEventKind = "retry_create_collection"
	SolanaUpdateCollection          SolanaEventKind = "update_collection"
	SolanaUpdateCollectionMint      SolanaEventKind = "update_collection_mint"
	SolanaRetryUpdateCollectionMint SolanaEventKind = "retry_update_collection_mint"
	SolanaMintToCollection          SolanaEventKind = "mint_to_collection"
	SolanaRetryMintToCollection     SolanaEventKind = "retry_mint_to_collection"
	SolanaSwitchCollection          SolanaEventKind = "switch_collection"
)

// SolanaPendingTransaction carries the message to sign plus the signer
// slots. Each entry of SignaturesOrSignersPublicKeys is either a base58
// Ed25519 public key (meaning "the vault holding this key must sign") or an
// already-produced base58 signature, passed through verbatim. Positional
// order is load-bearing for downstream reassembly.
type SolanaPendingTransaction struct {
	SerializedMessage             []byte   `json:"serialized_message"`
	SignaturesOrSignersPublicKeys []string `json:"signatures_or_signers_public_keys"`
}

type SolanaNftEvent struct {
	Kind        SolanaEventKind           `json:"kind"`
	Transaction *SolanaPendingTransaction `json:"transaction,omitempty"`
}

type SolanaNftEnvelope struct {
	Key   SolanaNftEventKey `json:"key"`
	Event SolanaNftEvent    `json:"event"`
}

// --- Polygon.* requests ---

type PolygonEventKind string

const (
	PolygonSubmitCreateDropTxn         PolygonEventKind = "submit_create_drop_txn"
	PolygonSubmitRetryCreateDropTxn    PolygonEventKind = "submit_retry_create_drop_txn"
	PolygonSubmitMintDropTxn           PolygonEventKind = "submit_mint_drop_txn"
	PolygonSubmitUpdateDropTxn         PolygonEventKind = "submit_update_drop_txn"
	PolygonSubmitRetryMintDropTxn      PolygonEventKind = "submit_retry_mint_drop_txn"
	PolygonSignPermitTokenTransferHash PolygonEventKind = "sign_permit_token_transfer_hash"
	PolygonSubmitTransferAssetTxns     PolygonEventKind = "submit_transfer_asset_txns"
)

type PolygonTransaction struct {
	Data            []byte `json:"data"`
	ContractAddress string `json:"contract_address"`
	EditionID       uint64 `json:"edition_id"`
}

type PermitArgsHash struct {
	Data      []byte `json:"data"`
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
	Recipient string `json:"recipient"`
	EditionID uint64 `json:"edition_id"`
	Amount    uint64 `json:"amount"`
}

type PolygonTokenTransferTxns struct {
	PermitTokenTransferTxn *PolygonTransaction `json:"permit_token_transfer_txn,omitempty"`
	SafeTransferFromTxn    *PolygonTransaction `json:"safe_transfer_from_txn,omitempty"`
}

type PolygonNftEvent struct {
	Kind         PolygonEventKind          `json:"kind"`
	Transaction  *PolygonTransaction       `json:"transaction,omitempty"`
	PermitHash   *PermitArgsHash           `json:"permit_hash,omitempty"`
	TransferTxns *PolygonTokenTransferTxns `json:"transfer_txns,omitempty"`
}

type PolygonNftEnvelope struct {
	Key   PolygonNftEventKey `json:"key"`
	Event PolygonNftEvent    `json:"event"`
}
