package port

import (
	"context"
	"estatemap/internal/core/domain"
)

type EnquiryEventsPort interface {
	PublishEnquiryReceived(ctx context.Context, enquiry domain.Enquiry) error
}
