package domain

import (
	"fmt"
	"strings"
)

// JobStatus is the orchestrator state.
type JobStatus string

const (
	JobPending    JobStatus = "PENDING"
	JobProcessing JobStatus = "PROCESSING"
	JobCompleted  JobStatus = "COMPLETED"
	JobFailed     JobStatus = "FAILED"
)

// JobConfig is the sole input of a try-on job.
type JobConfig struct {
	Customer     *Customer     `json:"customer"`
	Garments     []CatalogItem `json:"garments"`
	Instructions string        `json:"instructions"`
	UsePro       bool          `json:"usePro"`
}

// Validate checks the start precondition: a customer and at least one garment.
func (c JobConfig) Validate() error {
	if c.Customer == nil || (strings.TrimSpace(c.Customer.ID) == "" && strings.TrimSpace(c.Customer.PhotoURL) == "") {
		return fmt.Errorf("%w: a customer must be selected", ErrInvalidJob)
	}
	if len(c.Garments) == 0 {
		return fmt.Errorf("%w: at least one garment is required", ErrInvalidJob)
	}
	return nil
}

// ProcessingState is the progress of the current job.
type ProcessingState struct {
	Status         JobStatus `json:"status"`
	CurrentStep    int       `json:"currentStep"`
	TotalSteps     int       `json:"totalSteps"`
	CurrentGarment string    `json:"currentGarment"`
}

// IdleState is the zeroed PENDING state.
func IdleState() ProcessingState {
	return ProcessingState{Status: JobPending}
}
