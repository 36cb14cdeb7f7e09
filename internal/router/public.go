package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/DjordjeVuckovic/news-desk/internal/apperr"
	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/internal/storage"
	"github.com/labstack/echo/v4"
)

// ArticleReader is the read model behind the public routes.
type ArticleReader interface {
	storage.Reader
	Featured(ctx context.Context) ([]domain.Article, error)
}

type PublicRouter struct {
	e      *echo.Echo
	reader ArticleReader
}

func NewPublicRouter(e *echo.Echo, reader ArticleReader) *PublicRouter {
	return &PublicRouter{e: e, reader: reader}
}

func (r *PublicRouter) Bind() {
	g := r.e.Group("/api/news")
	g.GET("", r.listNews)
	g.GET("/featured", r.featuredNews)
	g.GET("/:id", r.getNews)
}

// listNews godoc
// @Summary List articles, newest first
// @Tags news
// @Produce json
// @Success 200 {array} domain.Article
// @Router /api/news [get]
func (r *PublicRouter) listNews(c echo.Context) error {
	articles, err := r.reader.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articles)
}

// featuredNews godoc
// @Summary List featured articles
// @Tags news
// @Produce json
// @Success 200 {array} domain.Article
// @Router /api/news/featured [get]
func (r *PublicRouter) featuredNews(c echo.Context) error {
	articles, err := r.reader.Featured(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articles)
}

// getNews godoc
// @Summary Get an article
// @Tags news
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} domain.Article
// @Failure 404 {object} map[string]string
// @Router /api/news/{id} [get]
func (r *PublicRouter) getNews(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	article, err := r.reader.GetByID(c.Request().Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NewNotFound("article", id.String())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}
