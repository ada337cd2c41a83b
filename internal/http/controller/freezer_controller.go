package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/evdbrink/freezer-storage-api/internal/model"
	"github.com/evdbrink/freezer-storage-api/internal/repository"
)

// FreezerController handles HTTP requests for freezers.
type FreezerController struct {
	freezers repository.FreezerRepository
}

// NewFreezerController creates a new FreezerController.
func NewFreezerController(freezers repository.FreezerRepository) *FreezerController {
	return &FreezerController{freezers: freezers}
}

// FreezerBody is the wire shape of a freezer.
type FreezerBody struct {
	FreezerID int64  `json:"freezerId"`
	Name      string `json:"name"`
}

// CreateFreezerRequest represents the request body for creating a freezer.
type CreateFreezerRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// ListFreezers handles GET /freezers.
func (fc *FreezerController) ListFreezers(c *gin.Context) {
	freezers, err := fc.freezers.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	bodies := make([]FreezerBody, 0, len(freezers))
	for _, freezer := range freezers {
		bodies = append(bodies, FreezerBody{FreezerID: freezer.ID, Name: freezer.Name})
	}

	c.JSON(http.StatusOK, bodies)
}

// GetFreezer handles GET /freezers/:id.
func (fc *FreezerController) GetFreezer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid freezer ID")
		return
	}

	freezer, err := fc.freezers.FindByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, FreezerBody{FreezerID: freezer.ID, Name: freezer.Name})
}

// CreateFreezer handles POST /freezers.
func (fc *FreezerController) CreateFreezer(c *gin.Context) {
	var req CreateFreezerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	created, err := fc.freezers.Create(c.Request.Context(), &model.Freezer{Name: req.Name})
	if err != nil {
		var uniqueErr *repository.UniqueConstraintError
		if errors.As(err, &uniqueErr) {
			c.String(http.StatusInternalServerError, "This freezer name already exists")
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, FreezerBody{FreezerID: created.ID, Name: created.Name})
}

// UpdateFreezer handles PATCH /freezers. The freezer ID must not change.
func (fc *FreezerController) UpdateFreezer(c *gin.Context) {
	var req FreezerBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	updated, err := fc.freezers.Update(c.Request.Context(), &model.Freezer{ID: req.FreezerID, Name: req.Name})
	if err != nil {
		var uniqueErr *repository.UniqueConstraintError
		if errors.As(err, &uniqueErr) {
			c.String(http.StatusInternalServerError, "This freezer name already exists")
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, FreezerBody{FreezerID: updated.ID, Name: updated.Name})
}

// DeleteFreezer handles DELETE /freezers/:id.
func (fc *FreezerController) DeleteFreezer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid freezer ID")
		return
	}

	if err := fc.freezers.DeleteByID(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, id)
}
