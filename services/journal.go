// services/journal.go
package services

import (
	"errors"
	"fmt"
	"time"

	"nft-treasury-service/models"

	"gorm.io/gorm"
)

// JournalService is the append-only record of custody transactions we
// initiated. Insert-or-fail on the custody transaction UUID — the primary
// key is the producer-side dedup guard.
type JournalService struct {
	DB *gorm.DB
}

func NewJournalService(db *gorm.DB) *JournalService {
	return &JournalService{DB: db}
}

// Insert writes exactly one row per successful custody transaction.
// A duplicate custody id fails the insert; there are no updates or deletes.
func (s *JournalService) Insert(fireblocksID, signature, txType string) error {
	row := &models.Transaction{
		FireblocksID: fireblocksID,
		Signature:    signature,
		TxType:       txType,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.DB.Create(row).Error; err != nil {
		return fmt.Errorf("failed to journal custody transaction %s: %w", fireblocksID, err)
	}
	return nil
}

// Get looks a journaled transaction up by its custody id.
func (s *JournalService) Get(fireblocksID string) (*models.Transaction, error) {
	var row models.Transaction
	err := s.DB.Where("fireblocks_id = ?", fireblocksID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("custody transaction %s not journaled: %w", fireblocksID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Has reports whether a custody transaction id is journaled.
func (s *JournalService) Has(fireblocksID string) (bool, error) {
	var count int64
	if err := s.DB.Model(&models.Transaction{}).Where("fireblocks_id = ?", fireblocksID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
