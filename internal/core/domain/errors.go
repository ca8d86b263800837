package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStoreUnavailable - хранилище не сконфигурировано или недоступно.
	ErrStoreUnavailable = errors.New("listing store is unavailable")
	ErrListingNotFound  = errors.New("listing not found")
	ErrInvalidEnquiry   = errors.New("missing required fields")
	// ErrInvalidRequest - тело запроса не прошло проверку по контракту.
	ErrInvalidRequest = errors.New("invalid request body")
)

// EnquiryValidationError перечисляет незаполненные обязательные поля.
type EnquiryValidationError struct {
	MissingFields []string
}

func (e *EnquiryValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidEnquiry.Error(), strings.Join(e.MissingFields, ", "))
}

func (e *EnquiryValidationError) Unwrap() error { return ErrInvalidEnquiry }

// RequestContractError - нарушение JSON-схемы запроса.
type RequestContractError struct {
	Problems []string
}

func (e *RequestContractError) Error() string {
	if len(e.Problems) == 0 {
		return ErrInvalidRequest.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidRequest.Error(), strings.Join(e.Problems, "; "))
}

func (e *RequestContractError) Unwrap() error { return ErrInvalidRequest }

// SeedBatchError - сбой пакетной вставки. Ранее записанные пакеты остаются.
type SeedBatchError struct {
	InsertedCount int
	BatchIndex    int
	Err           error
}

func (e *SeedBatchError) Error() string {
	return fmt.Sprintf("seed batch %d failed after %d rows inserted: %v", e.BatchIndex, e.InsertedCount, e.Err)
}

func (e *SeedBatchError) Unwrap() error { return e.Err }
