package router

import (
	"crypto/subtle"
	"net/http"

	"github.com/DjordjeVuckovic/news-desk/internal/apperr"
	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/internal/ingest"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const imageFormField = "image"

// AdminRouter serves article mutations behind an optional bearer key.
type AdminRouter struct {
	e     *echo.Echo
	svc   *ingest.Service
	token string
}

func NewAdminRouter(e *echo.Echo, svc *ingest.Service, token string) *AdminRouter {
	return &AdminRouter{e: e, svc: svc, token: token}
}

func (r *AdminRouter) Bind() {
	g := r.e.Group("/api/admin")
	if r.token != "" {
		g.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup:  "header:" + echo.HeaderAuthorization,
			AuthScheme: "Bearer",
			Validator: func(key string, c echo.Context) (bool, error) {
				return subtle.ConstantTimeCompare([]byte(key), []byte(r.token)) == 1, nil
			},
		}))
	}
	g.PUT("/news/:id", r.updateNews)
	g.DELETE("/news/:id", r.deleteNews)
	g.POST("/news/:id/image", r.uploadImage)
}

// updateNews godoc
// @Summary Update an article
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Param patch body domain.ArticlePatch true "Fields to overwrite"
// @Success 200 {object} domain.Article
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/admin/news/{id} [put]
func (r *AdminRouter) updateNews(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var patch domain.ArticlePatch
	if err := c.Bind(&patch); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	article, err := r.svc.Update(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// deleteNews godoc
// @Summary Delete an article
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Success 200 {object} DeleteResponse
// @Router /api/admin/news/{id} [delete]
func (r *AdminRouter) deleteNews(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := r.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DeleteResponse{Success: true, ID: id.String()})
}

// uploadImage godoc
// @Summary Upload an article image
// @Description Falls back to the default image when the upload fails.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Param image formData file true "Image file"
// @Success 200 {object} domain.Article
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/admin/news/{id}/image [post]
func (r *AdminRouter) uploadImage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile(imageFormField)
	if err != nil {
		return apperr.NewValidationWrap("image file is required", err)
	}
	f, err := fh.Open()
	if err != nil {
		return apperr.NewValidationWrap("unreadable image", err)
	}
	defer f.Close()

	article, err := r.svc.AttachImage(c.Request().Context(), id, fh.Filename, fh.Header.Get(echo.HeaderContentType), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.NewValidation("invalid article id")
	}
	return id, nil
}
