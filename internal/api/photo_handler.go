package api

import (
	"net/http"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PhotoHandler serves progress photo uploads and listings.
type PhotoHandler struct {
	photoService service.PhotoService
}

func NewPhotoHandler(photoService service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

type UploadURLRequest struct {
	PhotoType   domain.PhotoType `json:"photoType" binding:"required,oneof=FRONT SIDE BACK"`
	ContentType string           `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	PhotoType domain.PhotoType `json:"photoType" binding:"required,oneof=FRONT SIDE BACK"`
	ObjectKey string           `json:"objectKey" binding:"required"`
	FileName  string           `json:"fileName"`
}

// RequestUploadURL godoc
// @Summary Get a presigned URL to upload a progress photo
// @Description The client PUTs the file to uploadUrl, then confirms with objectKey.
// @Tags Student Photos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UploadURLRequest true "Photo type and content type"
// @Success 200 {object} service.UploadURLResponse
// @Failure 415 {object} gin.H "Not an image"
// @Failure 503 {object} gin.H "Storage not configured"
// @Router /student/photos/upload-url [post]
func (h *PhotoHandler) RequestUploadURL(c *gin.Context) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	var req UploadURLRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.photoService.RequestUploadURL(c.Request.Context(), studentID, req.PhotoType, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload godoc
// @Summary Register an uploaded progress photo
// @Tags Student Photos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ConfirmUploadRequest true "Uploaded object"
// @Success 201 {object} domain.Upload
// @Failure 403 {object} gin.H "Object key belongs to someone else"
// @Failure 404 {object} gin.H "Object not found in storage"
// @Router /student/photos [post]
func (h *PhotoHandler) ConfirmUpload(c *gin.Context) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	var req ConfirmUploadRequest
	if !bindJSON(c, &req) {
		return
	}
	upload, err := h.photoService.ConfirmUpload(c.Request.Context(), studentID, req.PhotoType, req.ObjectKey, req.FileName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// ListMyPhotos godoc
// @Summary The student's progress photos with download links
// @Tags Student Photos
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.PhotoView
// @Router /student/photos [get]
func (h *PhotoHandler) ListMyPhotos(c *gin.Context) {
	studentID, ok := currentUser(c)
	if !ok {
		return
	}
	h.list(c, studentID, studentID)
}

// ListStudentPhotos godoc
// @Summary A managed student's progress photos
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {array} service.PhotoView
// @Router /trainer/students/{studentId}/photos [get]
func (h *PhotoHandler) ListStudentPhotos(c *gin.Context) {
	trainerID, ok := currentUser(c)
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	h.list(c, trainerID, studentID)
}

func (h *PhotoHandler) list(c *gin.Context, requesterID, studentID primitive.ObjectID) {
	photos, err := h.photoService.ListPhotos(c.Request.Context(), requesterID, studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	if photos == nil {
		photos = []service.PhotoView{}
	}
	c.JSON(http.StatusOK, photos)
}
