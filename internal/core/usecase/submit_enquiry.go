package usecase

import (
	"context"
	"estatemap/internal/contextkeys"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
	"time"
)

type SubmitEnquiryUseCase struct {
	store  port.ListingStore
	events port.EnquiryEventsPort
	now    func() time.Time
}

// NewSubmitEnquiryUseCase - events может быть nil, если RabbitMQ отключен.
func NewSubmitEnquiryUseCase(store port.ListingStore, events port.EnquiryEventsPort) *SubmitEnquiryUseCase {
	return &SubmitEnquiryUseCase{store: store, events: events, now: time.Now}
}

func (uc *SubmitEnquiryUseCase) Execute(ctx context.Context, enquiry domain.Enquiry) (int64, error) {
	fields := port.Fields{"use_case": "SubmitEnquiry"}
	if enquiry.PropertyID != nil {
		fields["property_id"] = *enquiry.PropertyID
	}
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(fields)
	ucLogger.Info("Use case started", nil)

	if err := enquiry.Validate(); err != nil {
		ucLogger.Warn("Enquiry rejected", port.Fields{"error": err.Error()})
		return 0, err
	}

	enquiry.CreatedAt = uc.now().UTC()
	id, err := uc.store.InsertEnquiry(ctx, enquiry)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return 0, err
	}
	enquiry.ID = id

	// Запись в хранилище уже выполнена, ошибка публикации только логируется.
	if uc.events != nil {
		if err := uc.events.PublishEnquiryReceived(ctx, enquiry); err != nil {
			ucLogger.Error("Failed to publish enquiry event", err, port.Fields{"enquiry_id": id})
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"enquiry_id": id})
	return id, nil
}
