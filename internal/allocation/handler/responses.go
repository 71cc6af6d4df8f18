package handler

import (
	"time"

	"lifelink/internal/allocation"
	"lifelink/internal/matching/scorer"
	"lifelink/pkg/domain"
)

type organResponse struct {
	ID                string    `json:"id"`
	OrganType         string    `json:"organ_type"`
	BloodType         string    `json:"blood_type"`
	DonorAddress      string    `json:"donor_address"`
	Region            string    `json:"region"`
	Status            string    `json:"status"`
	IsEmergency       bool      `json:"is_emergency"`
	UrgencyLevel      int       `json:"urgency_level"`
	MedicalValidated  bool      `json:"medical_validated"`
	AssignedRecipient string    `json:"assigned_recipient,omitempty"`
	AssignedHospital  string    `json:"assigned_hospital,omitempty"`
	DonatedAt         time.Time `json:"donated_at"`
	ExpiresAt         time.Time `json:"expires_at,omitzero"`
}

func newOrganResponse(o *allocation.Organ) organResponse {
	return organResponse{
		ID:                o.ID.String(),
		OrganType:         o.OrganType.String(),
		BloodType:         o.BloodType.String(),
		DonorAddress:      o.Donor.String(),
		Region:            o.Region.String(),
		Status:            string(o.Status),
		IsEmergency:       o.IsEmergency,
		UrgencyLevel:      o.UrgencyLevel,
		MedicalValidated:  o.MedicalValidated,
		AssignedRecipient: o.AssignedRecipient.String(),
		AssignedHospital:  o.AssignedHospital.String(),
		DonatedAt:         o.DonatedAt,
		ExpiresAt:         o.ExpiresAt,
	}
}

type proposalResponse struct {
	ID          string            `json:"id"`
	OrganID     string            `json:"organ_id"`
	RecipientID string            `json:"recipient_id"`
	HospitalID  string            `json:"hospital_id,omitempty"`
	Score       scorer.MatchScore `json:"score"`
	Status      string            `json:"status"`
	ProposedAt  time.Time         `json:"proposed_at"`
}

func newProposalResponse(p *allocation.MatchProposal) proposalResponse {
	return proposalResponse{
		ID:          p.ID.String(),
		OrganID:     p.OrganID.String(),
		RecipientID: p.Recipient.String(),
		HospitalID:  p.Hospital.String(),
		Score:       p.Score,
		Status:      string(p.Status),
		ProposedAt:  p.ProposedAt,
	}
}

type compatibleResponse struct {
	OrganID    string   `json:"organ_id"`
	Recipients []string `json:"recipients"`
}

func newCompatibleResponse(organID domain.OrganID, recipients []domain.RecipientID) compatibleResponse {
	resp := compatibleResponse{OrganID: organID.String(), Recipients: []string{}}
	for _, r := range recipients {
		resp.Recipients = append(resp.Recipients, r.String())
	}
	return resp
}

type candidateResponse struct {
	RecipientID string            `json:"recipient_id"`
	Region      string            `json:"region"`
	Priority    string            `json:"priority"`
	Urgency     int               `json:"urgency_level"`
	Score       scorer.MatchScore `json:"score"`
}

type candidatesResponse struct {
	OrganID    string              `json:"organ_id"`
	Candidates []candidateResponse `json:"candidates"`
}

func newCandidatesResponse(organID domain.OrganID, ranked []allocation.Candidate) candidatesResponse {
	resp := candidatesResponse{OrganID: organID.String(), Candidates: []candidateResponse{}}
	for _, c := range ranked {
		resp.Candidates = append(resp.Candidates, candidateResponse{
			RecipientID: c.Entry.Recipient.String(),
			Region:      c.Entry.Region.String(),
			Priority:    c.Entry.Priority.String(),
			Urgency:     c.Entry.UrgencyLevel,
			Score:       c.Score,
		})
	}
	return resp
}

type scoreResponse struct {
	OrganID     string            `json:"organ_id"`
	RecipientID string            `json:"recipient_id"`
	Score       scorer.MatchScore `json:"score"`
}

func newScoreResponse(organID domain.OrganID, recipientID domain.RecipientID, score scorer.MatchScore) scoreResponse {
	return scoreResponse{
		OrganID:     organID.String(),
		RecipientID: recipientID.String(),
		Score:       score,
	}
}
