// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// CustodyLister is the reconciliation sweep's view of the custody client.
type CustodyLister interface {
	ListTransactions(ctx context.Context, after time.Time, limit int) ([]TransactionDetails, error)
}

// JournalChecker answers whether a custody transaction id is journaled.
type JournalChecker interface {
	Has(fireblocksID string) (bool, error)
}

// ReconciliationService periodically compares recent custody transactions
// against the journal. A dropped in-flight task leaves the custody
// transaction completed on the provider side but unjournaled here — the
// sweep surfaces those. Advisory only, it never writes.
type ReconciliationService struct {
	Custody CustodyLister
	Journal JournalChecker
}

func NewReconciliationService(custody CustodyLister, journal JournalChecker) *ReconciliationService {
	return &ReconciliationService{Custody: custody, Journal: journal}
}

func (s *ReconciliationService) StartReconciliationSweep() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every 5 minutes: flag completed RAW signings missing from the journal
	_, _ = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			since := time.Now().Add(-24 * time.Hour)
			txs, err := s.Custody.ListTransactions(ctx, since, 200)
			if err != nil {
				log.Printf("[Reconciliation] custody listing failed: %v", err)
				return
			}

			missing := 0
			for _, tx := range txs {
				if tx.Status != TxStatusCompleted || tx.Operation != OperationRaw {
					continue
				}
				if !IsSolanaAsset(tx.AssetID) {
					continue
				}
				journaled, err := s.Journal.Has(tx.ID)
				if err != nil {
					log.Printf("[Reconciliation] journal check failed for %s: %v", tx.ID, err)
					continue
				}
				if !journaled {
					missing++
					log.Printf("⚠️ [Reconciliation] custody tx %s (%s) completed but not journaled", tx.ID, tx.AssetID)
				}
			}
			if missing == 0 {
				log.Printf("[Reconciliation] swept %d custody transaction(s), journal consistent", len(txs))
			}
		}),
	)
}
