package consignment

import (
	"time"

	"github.com/consignmentgenie/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeStatement = "Statement"

// Event type constant
const EventTypeStatementGenerated = "StatementGenerated"

// StatementGeneratedEvent is published when a monthly statement is generated
type StatementGeneratedEvent struct {
	shared.BaseDomainEvent
	StatementID    uuid.UUID       `json:"statement_id"`
	ProviderID     uuid.UUID       `json:"provider_id"`
	ProviderName   string          `json:"provider_name"`
	Year           int             `json:"year"`
	Month          time.Month      `json:"month"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// NewStatementGeneratedEvent creates a new StatementGeneratedEvent
func NewStatementGeneratedEvent(stmt *Statement) *StatementGeneratedEvent {
	return &StatementGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStatementGenerated, AggregateTypeStatement, stmt.ID, stmt.TenantID),
		StatementID:     stmt.ID,
		ProviderID:      stmt.ProviderID,
		ProviderName:    stmt.ProviderName,
		Year:            stmt.Year,
		Month:           stmt.Month,
		ClosingBalance:  stmt.ClosingBalance,
	}
}
