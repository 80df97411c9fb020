package integration

import (
	"time"

	"github.com/consignmentgenie/backend/internal/domain/consignment"
	"github.com/google/uuid"
)

// SyncResultResponse reports the accounting sync state of an entity after
// a sync attempt
type SyncResultResponse struct {
	EntityID   uuid.UUID  `json:"entity_id"`
	EntityType string     `json:"entity_type"`
	SyncStatus string     `json:"sync_status"`
	SyncError  string     `json:"sync_error,omitempty"`
	SyncedAt   *time.Time `json:"synced_at,omitempty"`
	ExternalID string     `json:"external_id,omitempty"`
}

func toTransactionSyncResponse(tx *consignment.Transaction, externalID string) *SyncResultResponse {
	return &SyncResultResponse{
		EntityID:   tx.ID,
		EntityType: "transaction",
		SyncStatus: string(tx.SyncStatus),
		SyncError:  tx.SyncError,
		SyncedAt:   tx.SyncedAt,
		ExternalID: externalID,
	}
}

func toPayoutSyncResponse(payout *consignment.Payout, externalID string) *SyncResultResponse {
	return &SyncResultResponse{
		EntityID:   payout.ID,
		EntityType: "payout",
		SyncStatus: string(payout.SyncStatus),
		SyncError:  payout.SyncError,
		SyncedAt:   payout.SyncedAt,
		ExternalID: externalID,
	}
}
