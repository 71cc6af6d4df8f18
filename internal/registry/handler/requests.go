package handler

import (
	"time"

	"lifelink/internal/registry"
	"lifelink/pkg/domain"
	dErrors "lifelink/pkg/domain-errors"
)

type registerDonorRequest struct {
	Address   string `json:"address"`
	BloodType string `json:"blood_type"`
	Region    string `json:"region"`

	donor  domain.DonorID
	blood  domain.BloodType
	region domain.Region
}

func (req *registerDonorRequest) Validate() error {
	var err error
	if req.donor, err = domain.ParseDonorID(req.Address); err != nil {
		return err
	}
	if req.blood, err = domain.ParseBloodType(req.BloodType); err != nil {
		return err
	}
	if req.region, err = domain.ParseRegion(req.Region); err != nil {
		return err
	}
	return nil
}

type registerRecipientRequest struct {
	Address   string `json:"address"`
	BloodType string `json:"blood_type"`
	Region    string `json:"region"`
	Hospital  string `json:"hospital,omitempty"`

	recipient domain.RecipientID
	blood     domain.BloodType
	region    domain.Region
	hospital  domain.HospitalID
}

func (req *registerRecipientRequest) Validate() error {
	var err error
	if req.recipient, err = domain.ParseRecipientID(req.Address); err != nil {
		return err
	}
	if req.blood, err = domain.ParseBloodType(req.BloodType); err != nil {
		return err
	}
	if req.region, err = domain.ParseRegion(req.Region); err != nil {
		return err
	}
	// Treating center is optional at registration time.
	if req.Hospital != "" {
		if req.hospital, err = domain.ParseHospitalID(req.Hospital); err != nil {
			return err
		}
	}
	return nil
}

type registerHospitalRequest struct {
	Address    string `json:"address"`
	Name       string `json:"name"`
	Region     string `json:"region"`
	Accredited bool   `json:"accredited"`

	hospital domain.HospitalID
	region   domain.Region
}

func (req *registerHospitalRequest) Validate() error {
	var err error
	if req.hospital, err = domain.ParseHospitalID(req.Address); err != nil {
		return err
	}
	if req.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "hospital name is required")
	}
	if req.region, err = domain.ParseRegion(req.Region); err != nil {
		return err
	}
	return nil
}

type donorResponse struct {
	Address      string    `json:"address"`
	BloodType    string    `json:"blood_type"`
	Status       string    `json:"status"`
	Region       string    `json:"region"`
	RegisteredAt time.Time `json:"registered_at"`
}

func newDonorResponse(d *registry.Donor) donorResponse {
	return donorResponse{
		Address:      d.Address.String(),
		BloodType:    string(d.BloodType),
		Status:       string(d.Status),
		Region:       d.Region.String(),
		RegisteredAt: d.RegisteredAt,
	}
}

type recipientResponse struct {
	Address      string    `json:"address"`
	BloodType    string    `json:"blood_type"`
	Status       string    `json:"status"`
	Region       string    `json:"region"`
	Hospital     string    `json:"hospital,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

func newRecipientResponse(r *registry.Recipient) recipientResponse {
	return recipientResponse{
		Address:      r.Address.String(),
		BloodType:    string(r.BloodType),
		Status:       string(r.Status),
		Region:       r.Region.String(),
		Hospital:     r.Hospital.String(),
		RegisteredAt: r.RegisteredAt,
	}
}

type hospitalResponse struct {
	Address    string `json:"address"`
	Name       string `json:"name"`
	Region     string `json:"region"`
	Accredited bool   `json:"accredited"`
}

func newHospitalResponse(h *registry.Hospital) hospitalResponse {
	return hospitalResponse{
		Address:    h.Address.String(),
		Name:       h.Name,
		Region:     h.Region.String(),
		Accredited: h.Accredited,
	}
}
