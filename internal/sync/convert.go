package sync

import (
	"github.com/outly-app/outly-go/internal/api"
	"github.com/outly-app/outly-go/internal/models"
)

// DTO-to-entity conversion, one direction, once per fetch cycle. A new DTO
// always produces a brand-new entity; entities are never patched field by
// field from a later response. Absent optional wire fields default here
// (missing capacity -> 0, unknown event type -> other).

func eventFromDTO(dto api.EventDTO) models.Event {
	capacity := 0
	if dto.Capacity != nil {
		capacity = *dto.Capacity
	}

	ticketTypes := make([]models.TicketType, len(dto.TicketTypes))
	for i, t := range dto.TicketTypes {
		ticketTypes[i] = models.TicketType{
			Name:          t.Name,
			Price:         t.Price,
			TotalQuantity: t.TotalQuantity,
			SoldQuantity:  t.SoldQuantity,
		}
	}

	return models.Event{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Type:        eventTypeFromWire(dto.Type),
		Location: models.Location{
			Name:        dto.Location.Name,
			Address:     dto.Location.Address,
			Coordinates: dto.Location.Coordinates,
		},
		Date: dto.Date,
		Organizer: models.Organizer{
			Name:  dto.Organizer.Name,
			Phone: dto.Organizer.Phone,
			Email: dto.Organizer.Email,
		},
		Capacity:     capacity,
		Sold:         dto.Sold,
		Amenities:    dto.Amenities,
		Requirements: dto.Requirements,
		TicketTypes:  ticketTypes,
		Weather:      dto.Weather,
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
	}
}

func eventTypeFromWire(raw string) models.EventType {
	switch t := models.EventType(raw); t {
	case models.EventTypeConcert, models.EventTypeSports, models.EventTypeFestival,
		models.EventTypeConference, models.EventTypeWorkshop:
		return t
	default:
		return models.EventTypeOther
	}
}

func outingFromDTO(dto api.OutingDTO) models.Outing {
	activities := make([]models.Activity, len(dto.Activities))
	for i, a := range dto.Activities {
		activities[i] = activityFromDTO(a)
	}

	debts := make([]models.Debt, len(dto.Debts))
	for i, d := range dto.Debts {
		debts[i] = models.Debt{
			ID:         d.ID,
			FromUserID: d.FromUserID,
			ToUserID:   d.ToUserID,
			Amount:     d.Amount,
			Status:     debtStatusFromWire(d.Status),
		}
	}

	return models.Outing{
		ID:           dto.ID,
		Title:        dto.Title,
		Description:  dto.Description,
		OwnerID:      dto.OwnerID,
		Participants: dto.Participants,
		Activities:   activities,
		EventIDs:     dto.EventIDs,
		Debts:        debts,
		Status:       outingStatusFromWire(dto.Status),
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
	}
}

func activityFromDTO(dto api.ActivityDTO) models.Activity {
	return models.Activity{
		ID:           dto.ID,
		Title:        dto.Title,
		Description:  dto.Description,
		Amount:       dto.Amount,
		PayerID:      dto.PayerID,
		Participants: dto.Participants,
		References:   dto.References,
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
	}
}

func outingStatusFromWire(raw string) models.OutingStatus {
	if s := models.OutingStatus(raw); s.Valid() {
		return s
	}
	return models.OutingStatusDraft
}

func debtStatusFromWire(raw string) models.DebtStatus {
	if raw == string(models.DebtStatusPaid) {
		return models.DebtStatusPaid
	}
	return models.DebtStatusPending
}

func notificationFromDTO(dto api.NotificationDTO) models.Notification {
	return models.Notification{
		ID:          dto.ID,
		Type:        models.NotificationType(dto.Type),
		Title:       dto.Title,
		Message:     dto.Message,
		ReferenceID: dto.ReferenceID,
		SentAt:      dto.SentAt,
		ReadAt:      dto.ReadAt,
	}
}

func identityFromSession(dto api.SessionDTO) models.Identity {
	return models.Identity{
		UserID: dto.User.ID,
		Name:   dto.User.Name,
		Email:  dto.User.Email,
		Phone:  dto.User.Phone,
		Token:  dto.Token,
	}
}
