package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"evcatalog/internal/db"
	"evcatalog/internal/models"
)

// VehicleModelHandler manages CRUD endpoints for catalog entries.
type VehicleModelHandler struct {
	db *gorm.DB // Database handle for vehicle model records.
}

// NewVehicleModelHandler constructs a vehicle model handler.
func NewVehicleModelHandler(db *gorm.DB) *VehicleModelHandler {
	return &VehicleModelHandler{db: db}
}

// vehicleModelRequest captures the payload for creating or updating an entry.
type vehicleModelRequest struct {
	Name     string `json:"name"`     // Model name, required.
	Price    int64  `json:"price"`    // Price, non-negative.
	Year     int64  `json:"year"`     // Model year, non-negative.
	Power    int64  `json:"power"`    // Motor power, non-negative.
	Battery  int64  `json:"battery"`  // Battery capacity, non-negative.
	ImageURL string `json:"imageUrl"` // Optional image URL.
}

// validate rejects missing required fields and negative numeric values
// before any store access.
func (r *vehicleModelRequest) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name is required"
	}
	if r.Price < 0 {
		return "price must not be negative"
	}
	if r.Year < 0 {
		return "year must not be negative"
	}
	if r.Power < 0 {
		return "power must not be negative"
	}
	if r.Battery < 0 {
		return "battery must not be negative"
	}
	return ""
}

// List returns all catalog entries, optionally filtered by a
// case-insensitive name search.
func (h *VehicleModelHandler) List(c *gin.Context) {
	conn := h.db.WithContext(c.Request.Context())
	q := conn.Model(&models.VehicleModel{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := db.NormalizeLikePattern(conn, "%"+search+"%")
		q = q.Where(db.CaseInsensitiveLikeExpr(conn, "name"), pattern)
	}

	var rows []models.VehicleModel
	if errFind := q.Order("id ASC").Find(&rows).Error; errFind != nil {
		log.WithError(errFind).Error("list vehicle models failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list models failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, formatVehicleModel(&row))
	}
	c.JSON(http.StatusOK, out)
}

// Get fetches a catalog entry by ID.
func (h *VehicleModelHandler) Get(c *gin.Context) {
	id, errParse := parseID(c)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var row models.VehicleModel
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		log.WithError(errFind).Error("get vehicle model failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, formatVehicleModel(&row))
}

// Create validates input and inserts a new catalog entry.
// The generated id is unique and never reused; lastEditedAt stays absent
// until the first update.
func (h *VehicleModelHandler) Create(c *gin.Context) {
	var body vehicleModelRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if msg := body.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	row := models.VehicleModel{
		Name:     strings.TrimSpace(body.Name),
		Price:    body.Price,
		Year:     body.Year,
		Power:    body.Power,
		Battery:  body.Battery,
		ImageURL: body.ImageURL,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&row).Error; errCreate != nil {
		log.WithError(errCreate).Error("create vehicle model failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create model failed"})
		return
	}
	c.JSON(http.StatusOK, formatVehicleModel(&row))
}

// Update validates input and replaces the stored fields, refreshing
// lastEditedAt. Validation failures leave the row untouched.
func (h *VehicleModelHandler) Update(c *gin.Context) {
	id, errParse := parseID(c)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var body vehicleModelRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if msg := body.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var existing models.VehicleModel
	if errFind := h.db.WithContext(c.Request.Context()).First(&existing, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		log.WithError(errFind).Error("query vehicle model failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"name":           strings.TrimSpace(body.Name),
		"price":          body.Price,
		"year":           body.Year,
		"power":          body.Power,
		"battery":        body.Battery,
		"image_url":      body.ImageURL,
		"last_edited_at": now,
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&existing).Updates(updates).Error; errUpdate != nil {
		log.WithError(errUpdate).Error("update vehicle model failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	existing.Name = strings.TrimSpace(body.Name)
	existing.Price = body.Price
	existing.Year = body.Year
	existing.Power = body.Power
	existing.Battery = body.Battery
	existing.ImageURL = body.ImageURL
	existing.LastEditedAt = &now
	c.JSON(http.StatusOK, formatVehicleModel(&existing))
}

// Delete removes a catalog entry by ID. The id is never reused afterwards.
func (h *VehicleModelHandler) Delete(c *gin.Context) {
	id, errParse := parseID(c)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	res := h.db.WithContext(c.Request.Context()).Delete(&models.VehicleModel{}, id)
	if res.Error != nil {
		log.WithError(res.Error).Error("delete vehicle model failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// parseID parses the :id path parameter.
func parseID(c *gin.Context) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
}

// formatVehicleModel converts a catalog row into a response payload.
// lastEditedAt is omitted until the first successful update.
func formatVehicleModel(m *models.VehicleModel) gin.H {
	out := gin.H{
		"id":       m.ID,
		"name":     m.Name,
		"price":    m.Price,
		"year":     m.Year,
		"power":    m.Power,
		"battery":  m.Battery,
		"imageUrl": m.ImageURL,
	}
	if m.LastEditedAt != nil {
		out["lastEditedAt"] = m.LastEditedAt.UTC()
	}
	return out
}
