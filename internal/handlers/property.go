package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/baanlist-dev/baanlist/db"
	"github.com/baanlist-dev/baanlist/internal/listing"
	"github.com/baanlist-dev/baanlist/internal/models"
	"github.com/baanlist-dev/baanlist/internal/shape"
	"github.com/baanlist-dev/baanlist/internal/slug"
	"github.com/baanlist-dev/baanlist/internal/utils"
)

type PropertySummary struct {
	ID            uint      `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	ProjectSlug   string    `json:"project_slug"`
	Type          string    `json:"type"`
	TitleTH       string    `json:"title_th"`
	TitleEN       string    `json:"title_en,omitempty"`
	Price         float64   `json:"price"`
	SizeSqm       float64   `json:"size_sqm,omitempty"`
	Bedrooms      *int      `json:"bedrooms,omitempty"`
	Bathrooms     *int      `json:"bathrooms,omitempty"`
	Badges        []string  `json:"badges,omitempty"`
	CoverImage    string    `json:"cover_image,omitempty"`
	Status        string    `json:"status,omitempty"`
	ProjectNameTH string    `json:"project_name_th,omitempty"`
	CanonicalPath string    `json:"canonical_path"`
}

type PropertyDetail struct {
	PropertySummary

	SlugEN       string           `json:"slug_en,omitempty"`
	Floor        *int             `json:"floor,omitempty"`
	Furnished    string           `json:"furnished,omitempty"`
	BTSDistanceM *int             `json:"bts_distance_m,omitempty"`
	MRTDistanceM *int             `json:"mrt_distance_m,omitempty"`
	Images       []string         `json:"images,omitempty"`
	Project      *ProjectResponse `json:"project,omitempty"`
}

func propertySummary(record shape.Record) PropertySummary {
	summary := PropertySummary{
		ID:            record.ID,
		CreatedAt:     record.CreatedAt,
		ProjectSlug:   record.ProjectSlug,
		Type:          record.Type,
		TitleTH:       record.TitleTH,
		TitleEN:       record.TitleEN,
		Price:         record.Price,
		SizeSqm:       record.SizeSqm,
		Bedrooms:      record.Bedrooms,
		Bathrooms:     record.Bathrooms,
		Badges:        record.Badges,
		Status:        record.Status,
		CanonicalPath: slug.BuildPropertyPath(record.Property),
	}

	if len(record.Images) > 0 {
		summary.CoverImage = record.Images[0]
	}

	if record.Project != nil {
		summary.ProjectNameTH = record.Project.NameTH
	}

	return summary
}

func propertyDetail(record shape.Record) PropertyDetail {
	detail := PropertyDetail{
		PropertySummary: propertySummary(record),
		SlugEN:          record.SlugEN,
		Floor:           record.Floor,
		Furnished:       record.Furnished,
		BTSDistanceM:    record.BTSDistanceM,
		MRTDistanceM:    record.MRTDistanceM,
		Images:          record.Images,
	}

	if record.Project != nil {
		project := projectResponse(*record.Project)
		detail.Project = &project
	}

	return detail
}

// ListProperties serves the filtered public catalog. Unknown filter
// values are rejected outright; a backend failure is terminal for the
// attempt and the client retries by changing a filter.
func ListProperties(ctx *gin.Context) {
	filters, err := listing.ParseFilters(
		ctx.Query("type"),
		ctx.Query("bedrooms"),
		ctx.Query("sort"),
	)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var properties []models.Property

	query := filters.Apply(db.DB.Model(&models.Property{}))

	if err := query.Find(&properties).Error; err != nil {
		log.Printf("Failed to list properties: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve properties"})
		return
	}

	joins, err := projectJoins(properties)

	if err != nil {
		log.Printf("Failed to join projects for listing: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve properties"})
		return
	}

	response := make([]PropertySummary, 0, len(properties))

	for _, record := range shape.NormalizeRows(properties, joins) {
		response = append(response, propertySummary(record))
	}

	ctx.JSON(http.StatusOK, response)
}

// projectJoins batch-loads the related project rows for a fetched
// listing. The result is list-shaped per property, the raw form
// shape.NormalizeRows flattens.
func projectJoins(properties []models.Property) (map[string][]models.Project, error) {
	if len(properties) == 0 {
		return nil, nil
	}

	slugSet := make(map[string]bool, len(properties))
	slugs := make([]string, 0, len(properties))

	for _, p := range properties {
		if !slugSet[p.ProjectSlug] {
			slugSet[p.ProjectSlug] = true
			slugs = append(slugs, p.ProjectSlug)
		}
	}

	var projects []models.Project

	if err := db.DB.Where("slug IN ?", slugs).Find(&projects).Error; err != nil {
		return nil, err
	}

	joins := make(map[string][]models.Project, len(projects))

	for _, project := range projects {
		joins[project.Slug] = append(joins[project.Slug], project)
	}

	return joins, nil
}

func fetchProperty(id uint) (shape.Record, error) {
	var property models.Property

	if err := db.DB.First(&property, id).Error; err != nil {
		return shape.Record{}, err
	}

	// single-row fetch: the relation arrives object-shaped
	join := shape.ProjectJoin{}

	var project models.Project

	err := db.DB.Where("slug = ?", property.ProjectSlug).First(&project).Error

	switch {
	case err == nil:
		join.One = &project
	case errors.Is(err, gorm.ErrRecordNotFound):
		// orphaned rows keep a nil relation
	default:
		return shape.Record{}, err
	}

	return shape.Normalize(property, join), nil
}

// GetProperty serves a property detail by numeric id.
func GetProperty(ctx *gin.Context) {
	propertyID, err := utils.GetPropertyID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := fetchProperty(uint(propertyID))

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		} else {
			log.Printf("Failed to fetch property %d: %v", propertyID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property"})
		}
		return
	}

	setCanonical(ctx, slug.BuildPropertyPath(record.Property))
	ctx.JSON(http.StatusOK, propertyDetail(record))
}

// ShowListing resolves the nested canonical route
// /projects/:slug/:type/:room. The trailing id in the room segment is
// the lookup key; the rest of the segment is decorative. A request
// whose slug or type segment disagrees with the stored record is
// redirected to the true canonical path.
func ShowListing(ctx *gin.Context) {
	typeSegment := ctx.Param("type")

	if typeSegment != models.PropertyTypeRent && typeSegment != models.PropertyTypeBuy {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	listingID, ok := slug.ParseListingID(ctx.Param("room"))

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	record, err := fetchProperty(listingID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		} else {
			log.Printf("Failed to fetch listing %d: %v", listingID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listing"})
		}
		return
	}

	canonicalPath := slug.BuildPropertyPath(record.Property)

	if record.ProjectSlug != ctx.Param("slug") || record.Type != typeSegment {
		ctx.Redirect(http.StatusMovedPermanently, canonicalPath)
		return
	}

	setCanonical(ctx, canonicalPath)
	ctx.JSON(http.StatusOK, propertyDetail(record))
}

// LegacyPropertyRedirect translates the old flat /properties/:id link
// into the nested canonical form.
func LegacyPropertyRedirect(ctx *gin.Context) {
	propertyID, err := utils.GetPropertyID(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	record, err := fetchProperty(uint(propertyID))

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		} else {
			log.Printf("Failed to fetch property %d for redirect: %v", propertyID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve property"})
		}
		return
	}

	ctx.Redirect(http.StatusMovedPermanently, slug.BuildPropertyPath(record.Property))
}
