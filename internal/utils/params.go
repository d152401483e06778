package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetPropertyID(ctx *gin.Context) (uint64, error) {
	var err error

	propertyIDStr := ctx.Param("id")

	if propertyIDStr == "" {
		return 0, errors.New("Property ID not found")
	}

	propertyID, err := strconv.ParseUint(propertyIDStr, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid Property ID")
	}

	return propertyID, nil
}

func GetProjectSlug(ctx *gin.Context) (string, error) {
	slug := ctx.Param("slug")

	if slug == "" {
		return "", errors.New("Project slug not found")
	}

	return slug, nil
}
