package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/baanlist-dev/baanlist/db"
	"github.com/baanlist-dev/baanlist/internal/listing"
	"github.com/baanlist-dev/baanlist/internal/models"
	"github.com/baanlist-dev/baanlist/internal/shape"
	"github.com/baanlist-dev/baanlist/internal/utils"
)

type ProjectResponse struct {
	ID         uint     `json:"id"`
	Slug       string   `json:"slug"`
	NameTH     string   `json:"name_th"`
	NameEN     string   `json:"name_en"`
	Developer  string   `json:"developer,omitempty"`
	YearBuilt  int      `json:"year_built,omitempty"`
	Floors     int      `json:"floors,omitempty"`
	Units      int      `json:"units,omitempty"`
	Facilities []string `json:"facilities,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
	BTS        string   `json:"bts,omitempty"`
	MRT        string   `json:"mrt,omitempty"`
	Landmark   string   `json:"landmark,omitempty"`
	Lat        float64  `json:"lat,omitempty"`
	Lng        float64  `json:"lng,omitempty"`
}

type ProjectPageResponse struct {
	Project    ProjectResponse   `json:"project"`
	ActiveTab  listing.Tab       `json:"active_tab"`
	Counts     listing.TabCounts `json:"counts"`
	Properties []PropertySummary `json:"properties"`
}

func projectResponse(project models.Project) ProjectResponse {
	return ProjectResponse{
		ID:         project.ID,
		Slug:       project.Slug,
		NameTH:     project.NameTH,
		NameEN:     project.NameEN,
		Developer:  project.Developer,
		YearBuilt:  project.YearBuilt,
		Floors:     project.Floors,
		Units:      project.Units,
		Facilities: project.Facilities,
		Highlights: project.Highlights,
		BTS:        project.BTS,
		MRT:        project.MRT,
		Landmark:   project.Landmark,
		Lat:        project.Lat,
		Lng:        project.Lng,
	}
}

func ListProjects(ctx *gin.Context) {
	var projects []models.Project

	if err := db.DB.Order("created_at desc").Find(&projects).Error; err != nil {
		log.Printf("Failed to list projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, projectResponse(project))
	}

	setCanonical(ctx, "/projects")
	ctx.JSON(http.StatusOK, response)
}

// GetProject serves a project page: the project itself plus its full
// property batch, filtered in memory by the active tab. The tab is
// derived from the optional :type route segment; counts cover the
// whole batch so tab switches never refetch.
func GetProject(ctx *gin.Context) {
	projectSlug, err := utils.GetProjectSlug(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activeTab := listing.ParseTab(ctx.Param("type"))

	var project models.Project

	if err := db.DB.Where("slug = ?", projectSlug).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to fetch project %s: %v", projectSlug, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	var properties []models.Property

	err = db.DB.
		Where("project_slug = ?", projectSlug).
		Order("created_at desc").
		Find(&properties).Error

	if err != nil {
		log.Printf("Failed to fetch properties for project %s: %v", projectSlug, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project properties"})
		return
	}

	joins := map[string][]models.Project{project.Slug: {project}}
	summaries := make([]PropertySummary, 0, len(properties))

	for _, record := range shape.NormalizeRows(listing.FilterByTab(properties, activeTab), joins) {
		summaries = append(summaries, propertySummary(record))
	}

	canonicalPath := "/projects/" + project.Slug
	if activeTab != listing.TabAll {
		canonicalPath += "/" + string(activeTab)
	}

	setCanonical(ctx, canonicalPath)
	ctx.JSON(http.StatusOK, ProjectPageResponse{
		Project:    projectResponse(project),
		ActiveTab:  activeTab,
		Counts:     listing.CountByTab(properties),
		Properties: summaries,
	})
}
