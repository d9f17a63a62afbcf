package domain

import "time"

// Scenario is an independent, editable copy of the whole planning dataset.
type Scenario struct {
	ID           string
	Name         string
	Description  string
	TemplateName string
	CreatedDate  time.Time
	LastModified time.Time
	Data         Dataset
}
