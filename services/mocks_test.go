package services

import (
	"context"
	"errors"
	"sync"

	"nft-treasury-service/events"
	"nft-treasury-service/models"
)

// Common test errors
var (
	ErrMockCustody = errors.New("mock custody error")
	ErrMockJournal = errors.New("mock journal error")
	ErrMockPublish = errors.New("mock publish error")
	ErrMockRPC     = errors.New("mock rpc error")
)

// recordedRawSigning captures the arguments of one RawSigning call.
type recordedRawSigning struct {
	AssetID    string
	VaultID    string
	MessageHex string
	Note       string
}

// recordedContractCall captures the arguments of one ContractCall call.
type recordedContractCall struct {
	AssetID         string
	VaultID         string
	ContractAddress string
	DataHex         string
	Note            string
}

// MockCustodySigner implements CustodySigner for testing
type MockCustodySigner struct {
	mu               sync.Mutex
	RawSigningFunc   func(ctx context.Context, assetID, vaultID, messageHex, note string) (*CreateTransactionResponse, error)
	ContractCallFunc func(ctx context.Context, assetID, vaultID, contractAddress, dataHex, note string) (*CreateTransactionResponse, error)
	WaitFunc         func(ctx context.Context, id string) (*TransactionDetails, error)

	RawSignings   []recordedRawSigning
	ContractCalls []recordedContractCall
	WaitedIDs     []string
}

func (m *MockCustodySigner) RawSigning(ctx context.Context, assetID, vaultID, messageHex, note string) (*CreateTransactionResponse, error) {
	m.mu.Lock()
	m.RawSignings = append(m.RawSignings, recordedRawSigning{assetID, vaultID, messageHex, note})
	m.mu.Unlock()

	if m.RawSigningFunc != nil {
		return m.RawSigningFunc(ctx, assetID, vaultID, messageHex, note)
	}
	return &CreateTransactionResponse{ID: "mock-tx", Status: TxStatusSubmitted}, nil
}

func (m *MockCustodySigner) ContractCall(ctx context.Context, assetID, vaultID, contractAddress, dataHex, note string) (*CreateTransactionResponse, error) {
	m.mu.Lock()
	m.ContractCalls = append(m.ContractCalls, recordedContractCall{assetID, vaultID, contractAddress, dataHex, note})
	m.mu.Unlock()

	if m.ContractCallFunc != nil {
		return m.ContractCallFunc(ctx, assetID, vaultID, contractAddress, dataHex, note)
	}
	return &CreateTransactionResponse{ID: "mock-tx", Status: TxStatusSubmitted}, nil
}

func (m *MockCustodySigner) WaitForTerminal(ctx context.Context, id string) (*TransactionDetails, error) {
	m.mu.Lock()
	m.WaitedIDs = append(m.WaitedIDs, id)
	m.mu.Unlock()

	if m.WaitFunc != nil {
		return m.WaitFunc(ctx, id)
	}
	return &TransactionDetails{ID: id, Status: TxStatusCompleted}, nil
}

// MockVaultResolver implements VaultResolver for testing
type MockVaultResolver struct {
	VaultsByAddress map[string]string
	Resolved        []string
}

func (m *MockVaultResolver) VaultByWalletAddress(address string) (string, error) {
	m.Resolved = append(m.Resolved, address)
	if vault, ok := m.VaultsByAddress[address]; ok {
		return vault, nil
	}
	return "", ErrNotFound
}

// journalRow is one recorded Insert.
type journalRow struct {
	FireblocksID string
	Signature    string
	TxType       string
}

// MockJournal implements JournalWriter and JournalReader for testing
type MockJournal struct {
	mu         sync.Mutex
	InsertFunc func(fireblocksID, signature, txType string) error
	GetFunc    func(fireblocksID string) (*models.Transaction, error)
	Rows       []journalRow
}

func (m *MockJournal) Insert(fireblocksID, signature, txType string) error {
	m.mu.Lock()
	m.Rows = append(m.Rows, journalRow{fireblocksID, signature, txType})
	m.mu.Unlock()

	if m.InsertFunc != nil {
		return m.InsertFunc(fireblocksID, signature, txType)
	}
	return nil
}

func (m *MockJournal) Get(fireblocksID string) (*models.Transaction, error) {
	if m.GetFunc != nil {
		return m.GetFunc(fireblocksID)
	}
	return nil, ErrNotFound
}

// emittedEvent is one recorded Emit.
type emittedEvent struct {
	Key   events.TreasuryEventKey
	Event events.TreasuryEvent
}

// MockEmitter implements TreasuryEmitter for testing
type MockEmitter struct {
	mu       sync.Mutex
	EmitFunc func(ctx context.Context, key events.TreasuryEventKey, event events.TreasuryEvent) error
	Emitted  []emittedEvent
}

func (m *MockEmitter) Emit(ctx context.Context, key events.TreasuryEventKey, event events.TreasuryEvent) error {
	m.mu.Lock()
	m.Emitted = append(m.Emitted, emittedEvent{Key: key, Event: event})
	m.mu.Unlock()

	if m.EmitFunc != nil {
		return m.EmitFunc(ctx, key, event)
	}
	return nil
}

// MockPublisher implements Publisher for testing
type MockPublisher struct {
	PublishFunc func(ctx context.Context, routingKey string, body any) error
	RoutingKeys []string
	Bodies      []any
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, body any) error {
	m.RoutingKeys = append(m.RoutingKeys, routingKey)
	m.Bodies = append(m.Bodies, body)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, routingKey, body)
	}
	return nil
}

// MockBroadcaster implements SolanaBroadcaster for testing
type MockBroadcaster struct {
	SendFunc func(ctx context.Context, rawTx []byte) (string, error)
	SentTxs  [][]byte
}

func (m *MockBroadcaster) SendRawTransaction(ctx context.Context, rawTx []byte) (string, error) {
	m.SentTxs = append(m.SentTxs, rawTx)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, rawTx)
	}
	return "mock-signature", nil
}

func uint64Ptr(v uint64) *uint64 { return &v }
