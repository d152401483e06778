package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baanlist-dev/baanlist/db"
	"github.com/baanlist-dev/baanlist/internal/models"
	"github.com/baanlist-dev/baanlist/internal/sitemap"
	"github.com/baanlist-dev/baanlist/internal/types"
)

// Sitemap serves /sitemap.xml. Both table reads are minimal
// projections; either one failing aborts the whole document, a partial
// sitemap is never emitted.
func Sitemap(ctx *gin.Context) {
	var properties []models.Property

	err := db.DB.
		Select("id", "created_at", "project_slug", "type", "slug_en", "title_en", "title_th").
		Find(&properties).Error

	if err != nil {
		log.Printf("Failed to fetch properties for sitemap: %v", err)
		ctx.String(http.StatusInternalServerError, "Error generating sitemap")
		return
	}

	var projects []models.Project

	err = db.DB.
		Select("slug", "created_at", "updated_at").
		Find(&projects).Error

	if err != nil {
		log.Printf("Failed to fetch projects for sitemap: %v", err)
		ctx.String(http.StatusInternalServerError, "Error generating sitemap")
		return
	}

	document, err := sitemap.Build(types.SiteOrigin(), projects, properties)

	if err != nil {
		log.Printf("Failed to render sitemap: %v", err)
		ctx.String(http.StatusInternalServerError, "Error generating sitemap")
		return
	}

	ctx.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(document))
}
