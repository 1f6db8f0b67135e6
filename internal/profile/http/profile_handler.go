// Package http provides HTTP handlers for profile management operations.
// Handlers resolve the acting user from the request principal; /me routes never
// accept a user id from the client.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/legacykeep/user-service/internal/auth/http"
	apperrors "github.com/legacykeep/user-service/internal/errors"
	"github.com/legacykeep/user-service/internal/httputil"
	"github.com/legacykeep/user-service/internal/profile/http/dto"
	profileUseCase "github.com/legacykeep/user-service/internal/profile/usecase"
)

// ProfileHandler handles HTTP requests for profile management operations.
type ProfileHandler struct {
	profileUseCase profileUseCase.ProfileUseCase
	logger         *slog.Logger
}

// NewProfileHandler creates a new profile handler with required dependencies.
func NewProfileHandler(useCase profileUseCase.ProfileUseCase, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: useCase,
		logger:         logger,
	}
}

// CreateHandler creates the authenticated user's profile.
// POST /v1/profiles - Requires authentication.
// Returns 201 Created with the full profile, 409 if one already exists.
func (h *ProfileHandler) CreateHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	profile, err := h.profileUseCase.Create(c.Request.Context(), principal.UserID, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapProfileToResponse(profile))
}

// GetOwnHandler retrieves the authenticated user's profile.
// GET /v1/profiles/me - Requires authentication.
func (h *ProfileHandler) GetOwnHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	profile, err := h.profileUseCase.GetByUserID(c.Request.Context(), principal.UserID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapProfileToResponse(profile))
}

// GetHandler retrieves a profile by id.
// GET /v1/profiles/:id - Authentication optional.
// Owners receive the full profile; everyone else receives the public view of
// public profiles and 404 for private ones.
func (h *ProfileHandler) GetHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("id must be a positive integer"), h.logger)
		return
	}

	var requesterID int64
	if principal, ok := authHTTP.GetPrincipal(c.Request.Context()); ok {
		requesterID = principal.UserID
	}

	profile, err := h.profileUseCase.GetByID(c.Request.Context(), id, requesterID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if profile.UserID == requesterID && requesterID != 0 {
		c.JSON(http.StatusOK, dto.MapProfileToResponse(profile))
		return
	}

	c.JSON(http.StatusOK, dto.MapProfileToPublicResponse(profile))
}

// UpdateHandler replaces the authenticated user's profile fields.
// PUT /v1/profiles/me - Requires authentication.
func (h *ProfileHandler) UpdateHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	profile, err := h.profileUseCase.Update(c.Request.Context(), principal.UserID, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapProfileToResponse(profile))
}

// DeleteHandler soft-deletes the authenticated user's profile.
// DELETE /v1/profiles/me - Requires authentication.
// Returns 204 No Content on success.
func (h *ProfileHandler) DeleteHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.profileUseCase.Delete(c.Request.Context(), principal.UserID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListHandler returns a page of public profiles.
// GET /v1/profiles?offset=N&limit=N - Authentication optional.
func (h *ProfileHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	profiles, err := h.profileUseCase.ListPublic(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapProfilesToListResponse(profiles))
}

// LookupHandler resolves a profile by exact phone number match.
// GET /v1/profiles/lookup?phone=E164 - Requires authentication.
// Returns the public view unless the match is the caller's own profile.
func (h *ProfileHandler) LookupHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	phone := c.Query("phone")

	profile, err := h.profileUseCase.FindByPhoneNumber(c.Request.Context(), phone)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if profile.UserID == principal.UserID {
		c.JSON(http.StatusOK, dto.MapProfileToResponse(profile))
		return
	}

	c.JSON(http.StatusOK, dto.MapProfileToPublicResponse(profile))
}
