package ledgerevents

import (
	"context"
	"encoding/json"

	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/infrastructure/database"

	"gorm.io/datatypes"
)

// Service appends and reads the ledger event log. Record joins the caller's
// transaction, so an event exists exactly when its mutation committed.
type Service struct {
	Runner *database.Runner
}

// Record appends one event. A nil Service records nothing.
func (s *Service) Record(ctx context.Context, component, eventType string, propertyID uint64, actor domain.Address, data map[string]interface{}) error {
	if s == nil {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.Runner.Conn(ctx).Create(&domain.LedgerEvent{
		Component:  component,
		EventType:  eventType,
		PropertyID: propertyID,
		Actor:      actor,
		EventData:  datatypes.JSON(payload),
	}).Error
}

// ListByProperty returns a property's events oldest first.
func (s *Service) ListByProperty(ctx context.Context, propertyID uint64) ([]domain.LedgerEvent, error) {
	var events []domain.LedgerEvent
	if err := s.Runner.Conn(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
