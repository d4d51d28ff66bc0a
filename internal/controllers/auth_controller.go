package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"ride_hailing/internal/apperr"
	"ride_hailing/internal/services"
	"ride_hailing/internal/storage"
)

const (
	frontImageField = "frontLicenseImage"
	backImageField  = "backLicenseImage"
)

type AuthController struct {
	auth   *services.AuthService
	images *storage.ImageStore
}

func NewAuthController(auth *services.AuthService, images *storage.ImageStore) *AuthController {
	return &AuthController{auth: auth, images: images}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input services.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := ac.auth.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully.",
		"user":    user,
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input services.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	res, err := ac.auth.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful.",
		"token":   res.Token,
		"user":    res.User,
	})
}

// UploadLicenseImages stores the multipart license images and returns the
// references a client then sends to register or to a user update.
func (ac *AuthController) UploadLicenseImages(c *gin.Context) {
	images := gin.H{}
	for _, field := range []string{frontImageField, backImageField} {
		fh, err := c.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			images[field] = nil
			continue
		}
		if err != nil {
			respondError(c, apperr.Validation("Invalid multipart upload: "+err.Error()))
			return
		}

		ref, err := ac.saveImage(fh)
		if err != nil {
			respondError(c, err)
			return
		}
		images[field] = ref
	}

	if images[frontImageField] == nil && images[backImageField] == nil {
		respondError(c, apperr.Validation("Front or back license image file is required"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "License images uploaded successfully",
		"images":  images,
	})
}

func (ac *AuthController) saveImage(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", apperr.Internal(err)
	}
	defer f.Close()
	return ac.images.Save(f)
}

// ApproveDriver takes the approving admin from the authenticated context.
func (ac *AuthController) ApproveDriver(c *gin.Context) {
	var input struct {
		UserID uint `json:"userId"`
	}
	if !bindJSON(c, &input) {
		return
	}

	approval, err := ac.auth.ApproveDriver(c.Request.Context(), requester(c), input.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Driver approved successfully",
		"data":    approval,
	})
}
