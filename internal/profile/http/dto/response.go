package dto

import (
	"time"

	"github.com/legacykeep/user-service/internal/profile/domain"
)

// ProfileResponse is the owner's view of a profile. It carries every field,
// including contact details.
type ProfileResponse struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	FirstName         string    `json:"first_name,omitempty"`
	LastName          string    `json:"last_name,omitempty"`
	DisplayName       string    `json:"display_name,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	DateOfBirth       *string   `json:"date_of_birth,omitempty"`
	PhoneNumber       string    `json:"phone_number,omitempty"`
	AddressLine1      string    `json:"address_line1,omitempty"`
	AddressLine2      string    `json:"address_line2,omitempty"`
	City              string    `json:"city,omitempty"`
	State             string    `json:"state,omitempty"`
	Country           string    `json:"country,omitempty"`
	PostalCode        string    `json:"postal_code,omitempty"`
	Timezone          string    `json:"timezone"`
	Language          string    `json:"language"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	IsPublic          bool      `json:"is_public"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PublicProfileResponse is the restricted view served to other users. Contact
// details and date of birth are never exposed here.
type PublicProfileResponse struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	DisplayName       string    `json:"display_name,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	City              string    `json:"city,omitempty"`
	Country           string    `json:"country,omitempty"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// ListProfilesResponse represents a paginated list of public profiles.
type ListProfilesResponse struct {
	Data []PublicProfileResponse `json:"data"`
}

// MapProfileToResponse converts a domain profile to the owner's full view.
func MapProfileToResponse(profile *domain.UserProfile) ProfileResponse {
	response := ProfileResponse{
		ID:                profile.ID,
		UserID:            profile.UserID,
		FirstName:         profile.FirstName,
		LastName:          profile.LastName,
		DisplayName:       profile.DisplayName,
		Bio:               profile.Bio,
		PhoneNumber:       profile.PhoneNumber,
		AddressLine1:      profile.AddressLine1,
		AddressLine2:      profile.AddressLine2,
		City:              profile.City,
		State:             profile.State,
		Country:           profile.Country,
		PostalCode:        profile.PostalCode,
		Timezone:          profile.Timezone,
		Language:          profile.Language,
		ProfilePictureURL: profile.ProfilePictureURL,
		IsPublic:          profile.IsPublic,
		CreatedAt:         profile.CreatedAt,
		UpdatedAt:         profile.UpdatedAt,
	}

	if profile.DateOfBirth != nil {
		dob := profile.DateOfBirth.Format(dateOfBirthLayout)
		response.DateOfBirth = &dob
	}

	return response
}

// MapProfileToPublicResponse converts a domain profile to the restricted view.
func MapProfileToPublicResponse(profile *domain.UserProfile) PublicProfileResponse {
	return PublicProfileResponse{
		ID:                profile.ID,
		UserID:            profile.UserID,
		DisplayName:       profile.DisplayName,
		Bio:               profile.Bio,
		City:              profile.City,
		Country:           profile.Country,
		ProfilePictureURL: profile.ProfilePictureURL,
		CreatedAt:         profile.CreatedAt,
	}
}

// MapProfilesToListResponse converts a slice of domain profiles to a list response.
func MapProfilesToListResponse(profiles []*domain.UserProfile) ListProfilesResponse {
	data := make([]PublicProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		data = append(data, MapProfileToPublicResponse(profile))
	}

	return ListProfilesResponse{
		Data: data,
	}
}
