package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/baanlist-dev/baanlist/db"
	"github.com/baanlist-dev/baanlist/internal/models"
	"github.com/baanlist-dev/baanlist/internal/services"
	"github.com/baanlist-dev/baanlist/internal/shape"
	"github.com/baanlist-dev/baanlist/internal/utils"
)

type CreatePropertyRequest struct {
	ProjectSlug  string   `json:"project_slug" binding:"required"`
	Type         string   `json:"type" binding:"required,oneof=rent buy"`
	TitleTH      string   `json:"title_th" binding:"required"`
	TitleEN      string   `json:"title_en"`
	SlugEN       string   `json:"slug_en"`
	Price        *float64 `json:"price" binding:"required,gt=0"`
	Bedrooms     *int     `json:"bedrooms" binding:"required,gte=0"`
	Bathrooms    *int     `json:"bathrooms" binding:"required,gte=0"`
	SizeSqm      *float64 `json:"size_sqm" binding:"required,gt=0"`
	Floor        *int     `json:"floor"`
	Furnished    string   `json:"furnished"`
	BTSDistanceM *int     `json:"bts_distance_m"`
	MRTDistanceM *int     `json:"mrt_distance_m"`
	Badges       []string `json:"badges"`
	Images       []string `json:"images"`
	Status       string   `json:"status"`
}

// DashboardProperties serves the management listing: a slim projection
// of every property, newest first, with its project names joined.
func DashboardProperties(ctx *gin.Context) {
	var properties []models.Property

	err := db.DB.
		Order("created_at desc").
		Find(&properties).Error

	if err != nil {
		log.Printf("Failed to fetch dashboard properties: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve properties"})
		return
	}

	joins, err := projectJoins(properties)

	if err != nil {
		log.Printf("Failed to join projects for dashboard: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve properties"})
		return
	}

	response := make([]PropertySummary, 0, len(properties))

	for _, record := range shape.NormalizeRows(properties, joins) {
		response = append(response, propertySummary(record))
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateProperty handles the dashboard "add property" form. The
// binding tags reject incomplete submissions before any row is
// written; project, title, price, bedrooms, bathrooms and size are
// the required set.
func CreateProperty(ctx *gin.Context) {
	var body CreatePropertyRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all required fields"})
		return
	}

	var project models.Project

	if err := db.DB.Where("slug = ?", body.ProjectSlug).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown project"})
		} else {
			log.Printf("Failed to verify project %s: %v", body.ProjectSlug, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	status := body.Status
	if status == "" {
		status = "available"
	}

	property := models.Property{
		ProjectSlug:  body.ProjectSlug,
		Type:         body.Type,
		TitleTH:      body.TitleTH,
		TitleEN:      body.TitleEN,
		SlugEN:       body.SlugEN,
		Price:        *body.Price,
		SizeSqm:      *body.SizeSqm,
		Bedrooms:     body.Bedrooms,
		Bathrooms:    body.Bathrooms,
		Floor:        body.Floor,
		Furnished:    body.Furnished,
		BTSDistanceM: body.BTSDistanceM,
		MRTDistanceM: body.MRTDistanceM,
		Badges:       body.Badges,
		Images:       body.Images,
		Status:       status,
	}

	if err := db.DB.Create(&property).Error; err != nil {
		log.Printf("Failed to create property: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}

	go services.NotifyPropertyCreated(property, project)
	BroadcastRefresh("property_created", property.ID)

	record := shape.Normalize(property, shape.ProjectJoin{One: &project})
	ctx.JSON(http.StatusCreated, propertyDetail(record))
}

// DeleteProperty is a hard delete. The row is snapshotted into the
// delete log first; there is no soft delete and no undo.
func DeleteProperty(ctx *gin.Context) {
	propertyID, err := utils.GetPropertyID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var property models.Property

	if err := db.DB.First(&property, uint(propertyID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		} else {
			log.Printf("Failed to fetch property %d: %v", propertyID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property"})
		}
		return
	}

	snapshot, err := json.Marshal(property)

	if err != nil {
		log.Printf("Failed to snapshot property %d: %v", property.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
		return
	}

	deleteLog := models.DeleteLog{
		PropertyID: property.ID,
		TitleTH:    property.TitleTH,
		Reason:     models.DeleteReasonManual,
		DeletedBy:  actorID,
		Snapshot:   snapshot,
	}

	if err := db.DB.Create(&deleteLog).Error; err != nil {
		log.Printf("Failed to write delete log for property %d: %v", property.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
		return
	}

	if err := db.DB.Delete(&property).Error; err != nil {
		log.Printf("Failed to delete property %d: %v", property.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
		return
	}

	go services.NotifyPropertyDeleted(property)
	BroadcastRefresh("property_deleted", property.ID)

	ctx.Status(http.StatusNoContent)
}

// UpdateProperty is declared in the dashboard surface but has no
// backing behavior yet; listings are edited by delete-and-recreate.
func UpdateProperty(ctx *gin.Context) {
	ctx.JSON(http.StatusNotImplemented, gin.H{"error": "Editing properties is not supported yet"})
}
