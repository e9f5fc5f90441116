package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrVehicleNotFound is returned when a vehicle is not in the catalog
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrListFull is returned when a capped list has no room left
	ErrListFull = errors.New("list is full")

	// ErrUnknownList is returned for list kinds other than favorites and comparison
	ErrUnknownList = errors.New("unknown list")

	// ErrInvalidFeed is returned when a catalog feed cannot be parsed
	ErrInvalidFeed = errors.New("invalid feed")

	// ErrJobNotFound is returned when a background job ID is unknown
	ErrJobNotFound = errors.New("job not found")
)

// VehicleNotFoundError represents a vehicle not found error with context
type VehicleNotFoundError struct {
	VehicleID string
}

func (e *VehicleNotFoundError) Error() string {
	return fmt.Sprintf("vehicle with ID '%s' not found", e.VehicleID)
}

func (e *VehicleNotFoundError) Is(target error) bool {
	return target == ErrVehicleNotFound
}

// NewVehicleNotFoundError creates a new VehicleNotFoundError
func NewVehicleNotFoundError(vehicleID string) *VehicleNotFoundError {
	return &VehicleNotFoundError{VehicleID: vehicleID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ListFullError is returned when adding to a list that reached its limit
type ListFullError struct {
	List  string
	Limit int
}

func (e *ListFullError) Error() string {
	return fmt.Sprintf("%s list already holds the maximum of %d vehicles", e.List, e.Limit)
}

func (e *ListFullError) Is(target error) bool {
	return target == ErrListFull
}

// NewListFullError creates a new ListFullError
func NewListFullError(list string, limit int) *ListFullError {
	return &ListFullError{List: list, Limit: limit}
}

// UnknownListError represents a request for a list kind that does not exist
type UnknownListError struct {
	List string
}

func (e *UnknownListError) Error() string {
	return fmt.Sprintf("list '%s' does not exist", e.List)
}

func (e *UnknownListError) Is(target error) bool {
	return target == ErrUnknownList
}

// NewUnknownListError creates a new UnknownListError
func NewUnknownListError(list string) *UnknownListError {
	return &UnknownListError{List: list}
}

// FeedError points at the feed cell that could not be parsed.
// Line is 1-based and counts the header row.
type FeedError struct {
	Line   int
	Column string
	Err    error
}

func (e *FeedError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("feed line %d, column '%s': %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("feed line %d: %v", e.Line, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

func (e *FeedError) Is(target error) bool {
	return target == ErrInvalidFeed
}

// NewFeedError creates a new FeedError
func NewFeedError(line int, column string, err error) *FeedError {
	return &FeedError{Line: line, Column: column, Err: err}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}
