package handlers

import (
	"time"

	"service-delivery-agent/internal/domain"
)

type agentDTO struct {
	ID             string    `json:"id"`
	FullName       string    `json:"full_name"`
	Phone          string    `json:"phone"`
	NationalID     string    `json:"national_id"`
	Location       string    `json:"location,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	Online         bool      `json:"online"`
	Earnings       float64   `json:"earnings"`
	CreatedAt      time.Time `json:"created_at"`
}

type registerAgentRequest struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	NationalID string `json:"national_id"`
	Location   string `json:"location"`
}

type updateAgentRequest struct {
	FullName       *string `json:"full_name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	NationalID     *string `json:"national_id,omitempty"`
	Location       *string `json:"location,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

func toAgentDTO(a *domain.Agent) agentDTO {
	return agentDTO{
		ID:             a.ID,
		FullName:       a.FullName,
		Phone:          a.Phone,
		NationalID:     a.NationalID,
		Location:       a.Location,
		ProfilePicture: a.ProfilePicture,
		Online:         a.Online,
		Earnings:       a.Earnings,
		CreatedAt:      a.CreatedAt,
	}
}
