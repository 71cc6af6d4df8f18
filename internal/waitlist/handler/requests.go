package handler

import (
	"time"

	"lifelink/internal/waitlist"
	"lifelink/pkg/domain"
)

type addRequest struct {
	RecipientID  string `json:"recipient_id"`
	OrganType    string `json:"organ_type"`
	UrgencyLevel int    `json:"urgency_level"`
	Region       string `json:"region"`
	Priority     string `json:"priority"`

	recipient domain.RecipientID
	organType domain.OrganType
	region    domain.Region
	priority  waitlist.Priority
}

func (req *addRequest) Validate() error {
	var err error
	if req.recipient, err = domain.ParseRecipientID(req.RecipientID); err != nil {
		return err
	}
	if req.organType, err = domain.ParseOrganType(req.OrganType); err != nil {
		return err
	}
	if req.region, err = domain.ParseRegion(req.Region); err != nil {
		return err
	}
	if req.priority, err = waitlist.ParsePriority(req.Priority); err != nil {
		return err
	}
	if _, err = domain.ParseUrgency(req.UrgencyLevel); err != nil {
		return err
	}
	return nil
}

type updatePriorityRequest struct {
	RecipientID  string `json:"recipient_id"`
	OrganType    string `json:"organ_type"`
	UrgencyLevel int    `json:"urgency_level"`
	Region       string `json:"region"`
	Priority     string `json:"priority"`

	recipient domain.RecipientID
	organType domain.OrganType
	region    domain.Region
	priority  waitlist.Priority
}

func (req *updatePriorityRequest) Validate() error {
	var err error
	if req.recipient, err = domain.ParseRecipientID(req.RecipientID); err != nil {
		return err
	}
	if req.organType, err = domain.ParseOrganType(req.OrganType); err != nil {
		return err
	}
	if req.region, err = domain.ParseRegion(req.Region); err != nil {
		return err
	}
	if req.priority, err = waitlist.ParsePriority(req.Priority); err != nil {
		return err
	}
	if _, err = domain.ParseUrgency(req.UrgencyLevel); err != nil {
		return err
	}
	return nil
}

type entryResponse struct {
	RecipientID  string    `json:"recipient_id"`
	OrganType    string    `json:"organ_type"`
	UrgencyLevel int       `json:"urgency_level"`
	Region       string    `json:"region"`
	Priority     string    `json:"priority"`
	AddedAt      time.Time `json:"added_at"`
	Active       bool      `json:"active"`
}

func newEntryResponse(e *waitlist.Entry) entryResponse {
	return entryResponse{
		RecipientID:  e.Recipient.String(),
		OrganType:    e.OrganType.String(),
		UrgencyLevel: e.UrgencyLevel,
		Region:       e.Region.String(),
		Priority:     e.Priority.String(),
		AddedAt:      e.AddedAt,
		Active:       e.Active,
	}
}

type queueResponse struct {
	OrganType string          `json:"organ_type"`
	Region    string          `json:"region"`
	Entries   []entryResponse `json:"entries"`
}

func newQueueResponse(organType domain.OrganType, region domain.Region, entries []waitlist.Entry) queueResponse {
	resp := queueResponse{
		OrganType: organType.String(),
		Region:    region.String(),
		Entries:   []entryResponse{},
	}
	for i := range entries {
		resp.Entries = append(resp.Entries, newEntryResponse(&entries[i]))
	}
	return resp
}
