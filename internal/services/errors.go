package services

import "fmt"

// Service errors
var (
	ErrJudgingClosed       = &ServiceError{Message: "judging is currently closed"}
	ErrInvalidTimerMinutes = &ServiceError{Message: "minutes must be between 1 and 60"}
	ErrNoTablesSpecified   = &ServiceError{Message: "no tables specified"}
	ErrBaseURLNotSet       = &ServiceError{Message: "base URL is not configured"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// InvalidTableError represents an invalid table name error
type InvalidTableError struct {
	Table string
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("invalid table name: %s", e.Table)
}
