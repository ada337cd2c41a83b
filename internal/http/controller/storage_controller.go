package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evdbrink/freezer-storage-api/internal/model"
	"github.com/evdbrink/freezer-storage-api/internal/repository"
)

// StorageOperator is the slice of the storage service the controller needs.
type StorageOperator interface {
	QueryStorage(ctx context.Context, filter repository.StorageFilter) ([]model.StorageResponse, error)
	GetStorageByID(ctx context.Context, id int64) (*model.StorageResponse, error)
	StoreItem(ctx context.Context, entry *model.StorageEntry) (*model.StorageEntry, error)
	UpdateItem(ctx context.Context, entry *model.StorageEntry) (*model.StorageEntry, error)
	WithdrawItem(ctx context.Context, id int64) error
	ReenterItem(ctx context.Context, id int64) error
	DeleteItem(ctx context.Context, id int64) error
}

// StorageController handles HTTP requests for storage entries.
type StorageController struct {
	storageService StorageOperator
}

// NewStorageController creates a new StorageController with the given storage service.
func NewStorageController(storageService StorageOperator) *StorageController {
	return &StorageController{
		storageService: storageService,
	}
}

// StorageResponseBody is the wire shape of a storage query result row.
type StorageResponseBody struct {
	StorageID       int64   `json:"storageId"`
	ProductName     string  `json:"productName"`
	FreezerName     string  `json:"freezerName"`
	DrawerName      string  `json:"drawerName"`
	WeightGrams     float64 `json:"weightGrams"`
	ExpiresInDays   int     `json:"expiresInDays"`
	ExpirationDate  string  `json:"expirationDate"`
	InStorageSince  string  `json:"inStorageSince"`
	OutStorageSince *string `json:"outStorageSince"`
}

// ListStorage handles GET /storage: parses the filter from camelCase query
// parameters and runs the storage query pipeline. Empty parameter values
// are treated as absent before validation runs.
func (sc *StorageController) ListStorage(c *gin.Context) {
	filter, err := parseStorageFilter(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	responses, err := sc.storageService.QueryStorage(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toStorageResponseBodies(responses))
}

// GetStorage handles GET /storage/:id, returning the single matching
// response wrapped in a one-element array.
func (sc *StorageController) GetStorage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid storage ID")
		return
	}

	response, err := sc.storageService.GetStorageByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toStorageResponseBodies([]model.StorageResponse{*response}))
}

// CreateStorageRequest represents the request body for a storage intake.
type CreateStorageRequest struct {
	ProductID   int64   `json:"productId" binding:"required"`
	DrawerID    int64   `json:"drawerId" binding:"required"`
	WeightGrams float64 `json:"weightGrams" binding:"min=0"`
	DateIn      *string `json:"dateIn"`
}

// CreateStorage handles POST /storage. DateIn defaults to the current date
// when omitted.
func (sc *StorageController) CreateStorage(c *gin.Context) {
	var req CreateStorageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	entry := &model.StorageEntry{
		ProductID:   req.ProductID,
		DrawerID:    req.DrawerID,
		WeightGrams: req.WeightGrams,
	}
	if req.DateIn != nil && *req.DateIn != "" {
		dateIn, err := time.Parse(dateLayout, *req.DateIn)
		if err != nil {
			c.String(http.StatusBadRequest, "invalid dateIn date")
			return
		}
		entry.DateIn = dateIn
	}

	created, err := sc.storageService.StoreItem(c.Request.Context(), entry)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toStorageEntryBody(created))
}

// UpdateStorageRequest represents the request body for updating a storage
// entry. The storage ID must not change.
type UpdateStorageRequest struct {
	StorageID   int64   `json:"storageId" binding:"required"`
	ProductID   int64   `json:"productId" binding:"required"`
	DrawerID    int64   `json:"drawerId" binding:"required"`
	WeightGrams float64 `json:"weightGrams" binding:"min=0"`
	DateIn      string  `json:"dateIn" binding:"required"`
	DateOut     *string `json:"dateOut"`
}

// UpdateStorage handles PATCH /storage.
func (sc *StorageController) UpdateStorage(c *gin.Context) {
	var req UpdateStorageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	dateIn, err := time.Parse(dateLayout, req.DateIn)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid dateIn date")
		return
	}

	entry := &model.StorageEntry{
		ID:          req.StorageID,
		ProductID:   req.ProductID,
		DrawerID:    req.DrawerID,
		WeightGrams: req.WeightGrams,
		DateIn:      dateIn,
	}
	if req.DateOut != nil && *req.DateOut != "" {
		dateOut, err := time.Parse(dateLayout, *req.DateOut)
		if err != nil {
			c.String(http.StatusBadRequest, "invalid dateOut date")
			return
		}
		entry.DateOut = &dateOut
	}

	updated, err := sc.storageService.UpdateItem(c.Request.Context(), entry)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toStorageEntryBody(updated))
}

// WithdrawStorage handles PATCH /storage/:id/withdraw: the entry leaves the
// default query scope and keeps today as its withdrawal date.
func (sc *StorageController) WithdrawStorage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid storage ID")
		return
	}

	if err := sc.storageService.WithdrawItem(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "storage item withdrawn"})
}

// ReenterStorage handles PATCH /storage/:id/reenter: the withdrawal date is
// cleared and the entry returns to the default query scope.
func (sc *StorageController) ReenterStorage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid storage ID")
		return
	}

	if err := sc.storageService.ReenterItem(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "storage item re-entered"})
}

// DeleteStorage handles DELETE /storage/:id (hard delete).
func (sc *StorageController) DeleteStorage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid storage ID")
		return
	}

	if err := sc.storageService.DeleteItem(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "storage item deleted"})
}

// parseStorageFilter builds a StorageFilter from query parameters. Empty
// strings count as absent; defaults are applied before any override.
func parseStorageFilter(c *gin.Context) (repository.StorageFilter, error) {
	filter := repository.NewStorageFilter()

	if v := c.Query("productName"); v != "" {
		filter.ProductName = &v
	}
	if v := c.Query("freezerName"); v != "" {
		filter.FreezerName = &v
	}
	if v := c.Query("drawerName"); v != "" {
		filter.DrawerName = &v
	}

	var err error
	if filter.InBefore, err = parseDateParam(c, "inBefore"); err != nil {
		return filter, err
	}
	if filter.ExpiresAfterDate, err = parseDateParam(c, "expiresAfterDate"); err != nil {
		return filter, err
	}
	if filter.ExpiresBeforeDate, err = parseDateParam(c, "expiresBeforeDate"); err != nil {
		return filter, err
	}

	if v := c.Query("expiresInDays"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return filter, &repository.ValidationError{Message: "invalid expiresInDays value"}
		}
		filter.ExpiresInDays = &days
	}
	if v := c.Query("isWithdrawn"); v != "" {
		withdrawn, err := strconv.ParseBool(v)
		if err != nil {
			return filter, &repository.ValidationError{Message: "invalid isWithdrawn value"}
		}
		filter.IsWithdrawn = withdrawn
	}
	if v := c.Query("minWeight"); v != "" {
		minWeight, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, &repository.ValidationError{Message: "invalid minWeight value"}
		}
		filter.MinWeight = minWeight
	}
	if v := c.Query("maxWeight"); v != "" {
		maxWeight, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, &repository.ValidationError{Message: "invalid maxWeight value"}
		}
		filter.MaxWeight = maxWeight
	}

	return filter, nil
}

func parseDateParam(c *gin.Context, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	date, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, &repository.ValidationError{Message: "invalid " + name + " date"}
	}
	return &date, nil
}

// StorageEntryBody is the wire shape of a raw storage entry (create/update
// results), matching the database row rather than the joined query view.
type StorageEntryBody struct {
	StorageID   int64   `json:"storageId"`
	ProductID   int64   `json:"productId"`
	DrawerID    int64   `json:"drawerId"`
	WeightGrams float64 `json:"weightGrams"`
	DateIn      string  `json:"dateIn"`
	DateOut     *string `json:"dateOut"`
	Available   bool    `json:"available"`
}

func toStorageEntryBody(entry *model.StorageEntry) StorageEntryBody {
	return StorageEntryBody{
		StorageID:   entry.ID,
		ProductID:   entry.ProductID,
		DrawerID:    entry.DrawerID,
		WeightGrams: entry.WeightGrams,
		DateIn:      formatDate(entry.DateIn),
		DateOut:     formatDatePtr(entry.DateOut),
		Available:   entry.Available,
	}
}

func toStorageResponseBodies(responses []model.StorageResponse) []StorageResponseBody {
	bodies := make([]StorageResponseBody, 0, len(responses))
	for _, response := range responses {
		bodies = append(bodies, StorageResponseBody{
			StorageID:       response.StorageID,
			ProductName:     response.ProductName,
			FreezerName:     response.FreezerName,
			DrawerName:      response.DrawerName,
			WeightGrams:     response.WeightGrams,
			ExpiresInDays:   response.ExpiresInDays,
			ExpirationDate:  formatDate(response.ExpirationDate),
			InStorageSince:  formatDate(response.InStorageSince),
			OutStorageSince: formatDatePtr(response.OutStorageSince),
		})
	}
	return bodies
}
