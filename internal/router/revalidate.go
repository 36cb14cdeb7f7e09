package router

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/cache"
	"github.com/labstack/echo/v4"
)

// RevalidateRouter drops cached pages on request. The home page is always
// dropped with the requested path.
type RevalidateRouter struct {
	e     *echo.Echo
	pages cache.Invalidator
	token string
}

func NewRevalidateRouter(e *echo.Echo, pages cache.Invalidator, token string) *RevalidateRouter {
	return &RevalidateRouter{e: e, pages: pages, token: token}
}

func (r *RevalidateRouter) Bind() {
	r.e.GET("/revalidate", r.revalidate)
}

// revalidate godoc
// @Summary Drop cached pages
// @Tags cache
// @Produce json
// @Param path query string false "Page path" default(/)
// @Param token query string false "Revalidation secret"
// @Success 200 {object} RevalidateResponse
// @Failure 401 {object} ErrorResponse
// @Router /revalidate [get]
func (r *RevalidateRouter) revalidate(c echo.Context) error {
	if r.token != "" {
		got := c.Request().Header.Get(cache.TokenHeader)
		if got == "" {
			got = c.QueryParam("token")
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(r.token)) != 1 {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized", Error: "invalid token"})
		}
	}

	path := c.QueryParam("path")
	if path == "" {
		path = cache.HomePath
	}
	paths := []string{path}
	if path != cache.HomePath {
		paths = append(paths, cache.HomePath)
	}
	r.pages.Invalidate(paths...)

	return c.JSON(http.StatusOK, RevalidateResponse{
		Revalidated: true,
		Path:        path,
		Paths:       paths,
		Now:         time.Now().UnixMilli(),
	})
}
