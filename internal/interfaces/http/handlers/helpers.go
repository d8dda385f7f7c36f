package handlers

import (
	"strconv"

	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// currentIdentity returns the authenticated caller. Routes using it sit behind middleware.Auth.
func currentIdentity(c *gin.Context) shared.Identity {
	identity, _ := middleware.CurrentIdentity(c)
	return identity
}

// pathID parses a numeric path parameter. Malformed ids read as not found.
func pathID(c *gin.Context, name, entity string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, shared.NotFound(entity)
	}
	return uint(id), nil
}

// pageQuery reads ?page=&per_page=, falling back to perPage
func pageQuery(c *gin.Context, perPage int) shared.Page {
	page := shared.Page{PerPage: perPage}
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		page.Page = v
	}
	if v, err := strconv.Atoi(c.Query("per_page")); err == nil {
		page.PerPage = v
	}
	return page.Normalize()
}

// queryFlag reads a boolean query switch given as true or 1
func queryFlag(c *gin.Context, name string) bool {
	v := c.Query(name)
	return v == "true" || v == "1"
}
