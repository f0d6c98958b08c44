// File: /controllers/upload_controller.go
package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"fuellog-api/services"
	"fuellog-api/utils"
)

const maxImageSize = 5 << 20

type UploadController struct {
	storage *services.StorageService
}

func NewUploadController(storage *services.StorageService) *UploadController {
	return &UploadController{storage: storage}
}

// UploadImage accepts a multipart "file" field holding one image and stores
// it in the bucket.
func (uc *UploadController) UploadImage(c *gin.Context) {
	if !uc.storage.Enabled() {
		utils.SendError(c, http.StatusServiceUnavailable, "Image upload is not available")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize+(1<<20))

	header, err := c.FormFile("file")
	if err != nil {
		utils.SendValidationError(c, "multipart field \"file\" is required")
		return
	}
	if header.Size > maxImageSize {
		utils.SendError(c, http.StatusRequestEntityTooLarge, "Image must be 5 MB or smaller")
		return
	}

	contentType, ok := utils.ImageContentType(header.Filename)
	if !ok {
		utils.SendValidationError(c, "only jpg, png, gif and webp images are accepted")
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "Could not read upload")
		return
	}
	defer file.Close()

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		utils.SendError(c, http.StatusBadRequest, "Could not read upload")
		return
	}
	if !utils.IsImageContentType(http.DetectContentType(sniff[:n])) {
		utils.SendValidationError(c, "file content is not an image")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Could not read upload")
		return
	}

	userID := c.GetString("user_id")
	result, err := uc.storage.UploadImage(c.Request.Context(), userID, header.Filename, contentType, file, header.Size)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to upload image")
		utils.SendError(c, http.StatusBadGateway, "Failed to store image")
		return
	}

	c.JSON(http.StatusCreated, result)
}
