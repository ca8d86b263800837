package usecases_port

import (
	"context"
	"estatemap/internal/core/domain"
)

type SubmitEnquiryUseCase interface {
	Execute(ctx context.Context, enquiry domain.Enquiry) (int64, error)
}
