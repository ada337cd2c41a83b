package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/evdbrink/freezer-storage-api/internal/model"
	"github.com/evdbrink/freezer-storage-api/internal/repository"
)

// DrawerController handles HTTP requests for drawers.
type DrawerController struct {
	drawers repository.DrawerRepository
}

// NewDrawerController creates a new DrawerController.
func NewDrawerController(drawers repository.DrawerRepository) *DrawerController {
	return &DrawerController{drawers: drawers}
}

// DrawerBody is the wire shape of a drawer.
type DrawerBody struct {
	DrawerID  int64  `json:"drawerId"`
	Name      string `json:"name"`
	FreezerID int64  `json:"freezerId"`
}

// CreateDrawerRequest represents the request body for creating a drawer.
type CreateDrawerRequest struct {
	Name      string `json:"name" binding:"required,max=50"`
	FreezerID int64  `json:"freezerId" binding:"required"`
}

// ListDrawers handles GET /drawers, optionally scoped to one freezer via
// the freezerId query parameter. An empty value counts as absent.
func (dc *DrawerController) ListDrawers(c *gin.Context) {
	var drawers []model.Drawer
	var err error

	if v := c.Query("freezerId"); v != "" {
		freezerID, parseErr := strconv.ParseInt(v, 10, 64)
		if parseErr != nil {
			c.String(http.StatusBadRequest, "invalid freezerId value")
			return
		}
		drawers, err = dc.drawers.ListByFreezerID(c.Request.Context(), freezerID)
	} else {
		drawers, err = dc.drawers.List(c.Request.Context())
	}
	if err != nil {
		writeError(c, err)
		return
	}

	bodies := make([]DrawerBody, 0, len(drawers))
	for _, drawer := range drawers {
		bodies = append(bodies, toDrawerBody(&drawer))
	}

	c.JSON(http.StatusOK, bodies)
}

// GetDrawer handles GET /drawers/:id.
func (dc *DrawerController) GetDrawer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid drawer ID")
		return
	}

	drawer, err := dc.drawers.FindByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDrawerBody(drawer))
}

// CreateDrawer handles POST /drawers.
func (dc *DrawerController) CreateDrawer(c *gin.Context) {
	var req CreateDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	created, err := dc.drawers.Create(c.Request.Context(), &model.Drawer{Name: req.Name, FreezerID: req.FreezerID})
	if err != nil {
		var uniqueErr *repository.UniqueConstraintError
		if errors.As(err, &uniqueErr) {
			c.String(http.StatusInternalServerError, "This drawer name already exists within this freezer")
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDrawerBody(created))
}

// UpdateDrawer handles PATCH /drawers. The drawer ID must not change.
func (dc *DrawerController) UpdateDrawer(c *gin.Context) {
	var req DrawerBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	updated, err := dc.drawers.Update(c.Request.Context(), &model.Drawer{ID: req.DrawerID, Name: req.Name, FreezerID: req.FreezerID})
	if err != nil {
		var uniqueErr *repository.UniqueConstraintError
		if errors.As(err, &uniqueErr) {
			c.String(http.StatusInternalServerError, "This drawer name already exists within this freezer")
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDrawerBody(updated))
}

// DeleteDrawer handles DELETE /drawers/:id.
func (dc *DrawerController) DeleteDrawer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid drawer ID")
		return
	}

	if err := dc.drawers.DeleteByID(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, id)
}

func toDrawerBody(drawer *model.Drawer) DrawerBody {
	return DrawerBody{
		DrawerID:  drawer.ID,
		Name:      drawer.Name,
		FreezerID: drawer.FreezerID,
	}
}
