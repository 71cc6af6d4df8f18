package handler

import (
	"time"

	"lifelink/internal/allocation"
	"lifelink/pkg/domain"
	dErrors "lifelink/pkg/domain-errors"
)

type registerOrganRequest struct {
	OrganType    string    `json:"organ_type"`
	BloodType    string    `json:"blood_type"`
	DonorAddress string    `json:"donor_address"`
	Region       string    `json:"region"`
	IsEmergency  bool      `json:"is_emergency"`
	UrgencyLevel int       `json:"urgency_level"`
	Validated    bool      `json:"medical_validated"`
	ExpiresAt    time.Time `json:"expires_at"`

	organType domain.OrganType
	bloodType domain.BloodType
	donor     domain.DonorID
	region    domain.Region
}

func (req *registerOrganRequest) Validate() error {
	var err error
	if req.organType, err = domain.ParseOrganType(req.OrganType); err != nil {
		return err
	}
	if req.bloodType, err = domain.ParseBloodType(req.BloodType); err != nil {
		return err
	}
	if req.donor, err = domain.ParseDonorID(req.DonorAddress); err != nil {
		return err
	}
	if req.region, err = domain.ParseRegion(req.Region); err != nil {
		return err
	}
	if _, err = domain.ParseUrgency(req.UrgencyLevel); err != nil {
		return err
	}
	return nil
}

func (req *registerOrganRequest) params() allocation.RegisterOrganParams {
	return allocation.RegisterOrganParams{
		OrganType:    req.organType,
		BloodType:    req.bloodType,
		Donor:        req.donor,
		Region:       req.region,
		IsEmergency:  req.IsEmergency,
		UrgencyLevel: req.UrgencyLevel,
		Validated:    req.Validated,
		ExpiresAt:    req.ExpiresAt,
	}
}

type allocateRequest struct {
	OrganID     string `json:"organ_id"`
	RecipientID string `json:"recipient_id"`

	organID     domain.OrganID
	recipientID domain.RecipientID
}

func (req *allocateRequest) Validate() error {
	var err error
	if req.organID, err = domain.ParseOrganID(req.OrganID); err != nil {
		return err
	}
	if req.recipientID, err = domain.ParseRecipientID(req.RecipientID); err != nil {
		return err
	}
	return nil
}

type emergencyMatchRequest struct {
	OrganID     string `json:"organ_id"`
	MaxDistance int    `json:"max_distance"`

	organID domain.OrganID
}

func (req *emergencyMatchRequest) Validate() error {
	var err error
	if req.organID, err = domain.ParseOrganID(req.OrganID); err != nil {
		return err
	}
	if req.MaxDistance < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "max distance cannot be negative")
	}
	return nil
}

type matchScoreRequest struct {
	OrganID     string `json:"organ_id"`
	RecipientID string `json:"recipient_id"`

	organID     domain.OrganID
	recipientID domain.RecipientID
}

func (req *matchScoreRequest) Validate() error {
	var err error
	if req.organID, err = domain.ParseOrganID(req.OrganID); err != nil {
		return err
	}
	if req.recipientID, err = domain.ParseRecipientID(req.RecipientID); err != nil {
		return err
	}
	return nil
}
