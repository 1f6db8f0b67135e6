// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"fmt"
	"time"

	profileUseCase "github.com/legacykeep/user-service/internal/profile/usecase"
)

// dateOfBirthLayout is the wire format for the date_of_birth field.
const dateOfBirthLayout = "2006-01-02"

// ProfileRequest contains the profile fields accepted on create and update.
// Omitted optional fields clear the stored value.
type ProfileRequest struct {
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	DisplayName       string  `json:"display_name"`
	Bio               string  `json:"bio"`
	DateOfBirth       *string `json:"date_of_birth"`
	PhoneNumber       string  `json:"phone_number"`
	AddressLine1      string  `json:"address_line1"`
	AddressLine2      string  `json:"address_line2"`
	City              string  `json:"city"`
	State             string  `json:"state"`
	Country           string  `json:"country"`
	PostalCode        string  `json:"postal_code"`
	Timezone          string  `json:"timezone"`
	Language          string  `json:"language"`
	ProfilePictureURL string  `json:"profile_picture_url"`
	IsPublic          bool    `json:"is_public"`
}

// ToInput converts the request into a use case input, parsing the date of
// birth. Field-level validation happens in the use case.
func (r *ProfileRequest) ToInput() (profileUseCase.ProfileInput, error) {
	input := profileUseCase.ProfileInput{
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		DisplayName:       r.DisplayName,
		Bio:               r.Bio,
		PhoneNumber:       r.PhoneNumber,
		AddressLine1:      r.AddressLine1,
		AddressLine2:      r.AddressLine2,
		City:              r.City,
		State:             r.State,
		Country:           r.Country,
		PostalCode:        r.PostalCode,
		Timezone:          r.Timezone,
		Language:          r.Language,
		ProfilePictureURL: r.ProfilePictureURL,
		IsPublic:          r.IsPublic,
	}

	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		dob, err := time.Parse(dateOfBirthLayout, *r.DateOfBirth)
		if err != nil {
			return profileUseCase.ProfileInput{}, fmt.Errorf("date_of_birth must use YYYY-MM-DD format")
		}
		input.DateOfBirth = &dob
	}

	return input, nil
}
