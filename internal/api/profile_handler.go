package api

import (
	"net/http"

	"github.com/Barry4747/ZnanyByk-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profileService service.ProfileService
	log            *zap.Logger
}

func NewProfileHandler(profileService service.ProfileService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, log: log}
}

type UpdateProfileRequest struct {
	Name      string `json:"name" binding:"required"`
	BirthDate string `json:"birthDate"` // dd/MM/yyyy, empty clears it
}

type PhotoUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmPhotoRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"required,gt=0"`
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	user, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateProfile godoc
// @Summary Update name and birth date
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Name and birth date (dd/MM/yyyy, empty clears it)"
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.profileService.UpdateProfile(c.Request.Context(), userID, req.Name, req.BirthDate)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// RequestPhotoUpload godoc
// @Summary Get a presigned URL to upload a profile photo
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param photo body PhotoUploadRequest true "File name and image content type"
// @Success 200 {object} service.PhotoUpload
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /profile/photo/upload-url [post]
func (h *ProfileHandler) RequestPhotoUpload(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	upload, err := h.profileService.RequestPhotoUpload(c.Request.Context(), userID, req.FileName, req.ContentType)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// ConfirmPhoto godoc
// @Summary Confirm an uploaded profile photo
// @Description Records the uploaded object as the current photo and removes the previous one.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param photo body ConfirmPhotoRequest true "Uploaded object details"
// @Success 201 {object} domain.Upload
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /profile/photo [post]
func (h *ProfileHandler) ConfirmPhoto(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ConfirmPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	upload, err := h.profileService.ConfirmPhoto(c.Request.Context(), userID, req.ObjectKey, req.FileName, req.ContentType, req.Size)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// GetPhotoURL godoc
// @Summary Get a presigned download URL for the caller's photo
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "url"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /profile/photo [get]
func (h *ProfileHandler) GetPhotoURL(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	url, err := h.profileService.GetPhotoURL(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
