package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/baanlist-dev/baanlist/internal/types"
)

// setCanonical announces the single authoritative URL of a content
// response, the server-side equivalent of a head-level canonical link.
func setCanonical(ctx *gin.Context, path string) {
	ctx.Header("Link", fmt.Sprintf("<%s%s>; rel=\"canonical\"", types.SiteOrigin(), path))
}
