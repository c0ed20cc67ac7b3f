package appErrors

import (
	"errors"
	"fmt"
)

// ErrDuplicateWaitlistEmail is returned when an email is already on the waitlist.
var ErrDuplicateWaitlistEmail = errors.New("email already on waitlist")

// ErrCustomerOptedOut is returned by the SMS send path when the customer has
// opted out since eligibility was evaluated.
var ErrCustomerOptedOut = errors.New("customer has opted out of SMS messages")

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %s not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id string) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrBusinessNotFound is a sentinel error
type ErrBusinessNotFound struct {
	BusinessID string
}

func (e *ErrBusinessNotFound) Error() string {
	return fmt.Sprintf("business with ID %s not found", e.BusinessID)
}

func NewBusinessNotFound(id string) error {
	return &ErrBusinessNotFound{BusinessID: id}
}
