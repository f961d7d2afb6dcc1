package dto

import "github.com/bizbooks/ledger-backend/internal/core/domain"

// CreateOrganizationRequest defines the payload for creating a tenant organization.
type CreateOrganizationRequest struct {
	Name                string `json:"name" binding:"required"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode" binding:"required,len=3"`
}

// OrganizationResponse defines the data returned for an organization.
type OrganizationResponse struct {
	OrgID               string `json:"orgID"`
	Name                string `json:"name"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode"`
}

// ToOrganizationResponse converts a domain.Organization to OrganizationResponse DTO.
func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrgID:               o.OrgID,
		Name:                o.Name,
		DefaultCurrencyCode: o.DefaultCurrencyCode,
	}
}
