package router

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/apperr"
	"github.com/DjordjeVuckovic/news-desk/internal/generator"
	"github.com/DjordjeVuckovic/news-desk/internal/ingest"
	"github.com/DjordjeVuckovic/news-desk/internal/normalizer"
	"github.com/DjordjeVuckovic/news-desk/internal/telegram"
	"github.com/labstack/echo/v4"
)

const webhookIngestTimeout = 3 * time.Minute

type IngestRouter struct {
	e          *echo.Echo
	svc        *ingest.Service
	token      string
	telegram   *telegram.Authorizer
	extractor  *normalizer.Normalizer
	middleware []echo.MiddlewareFunc
	background sync.WaitGroup
}

type IngestRouterOption func(r *IngestRouter)

// WithIngestToken requires the shared secret on URL-mode ingestion.
func WithIngestToken(token string) IngestRouterOption {
	return func(r *IngestRouter) {
		r.token = token
	}
}

func WithTelegramAuthorizer(a *telegram.Authorizer) IngestRouterOption {
	return func(r *IngestRouter) {
		r.telegram = a
	}
}

func WithIngestMiddleware(m ...echo.MiddlewareFunc) IngestRouterOption {
	return func(r *IngestRouter) {
		r.middleware = append(r.middleware, m...)
	}
}

func NewIngestRouter(e *echo.Echo, svc *ingest.Service, opts ...IngestRouterOption) *IngestRouter {
	r := &IngestRouter{
		e:         e,
		svc:       svc,
		telegram:  telegram.NewAuthorizer(""),
		extractor: normalizer.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithRequestNormalizer replaces the extractor used to read URL-mode requests.
func WithRequestNormalizer(n *normalizer.Normalizer) IngestRouterOption {
	return func(r *IngestRouter) {
		r.extractor = n
	}
}

func (r *IngestRouter) Bind() {
	g := r.e.Group("/api", r.middleware...)
	g.POST("/news", r.createNews)
	g.Any("/n8n-webhook", r.createNews)
	g.POST("/telegram-news", r.ingestURL)
	g.POST("/generate-article", r.previewArticle)
	g.POST("/telegram-webhook", r.telegramWebhook)
}

// Wait blocks until webhook-triggered ingestions finish.
func (r *IngestRouter) Wait() {
	r.background.Wait()
}

// createNews godoc
// @Summary Create a news article
// @Description Stores an article from caller-supplied fields. Accepts JSON, double-encoded JSON, form, multipart or query payloads.
// @Tags ingest
// @Accept json
// @Accept x-www-form-urlencoded
// @Accept mpfd
// @Produce json
// @Param article body domain.ArticleInput true "Article fields"
// @Success 201 {object} NewsCreatedResponse
// @Failure 400 {object} MissingFieldsResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/news [post]
func (r *IngestRouter) createNews(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperr.NewValidationWrap("unreadable body", err)
	}

	article, err := r.svc.IngestFields(c.Request().Context(), normalizer.Input{
		Body:        body,
		ContentType: c.Request().Header.Get(echo.HeaderContentType),
		Query:       c.QueryParams(),
	})
	if err != nil {
		var mf *apperr.MissingFieldsError
		if errors.As(err, &mf) {
			return err
		}
		slog.Error("Failed to add news item", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Error adding news item",
			Error:   err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, NewsCreatedResponse{
		Success:  true,
		Message:  "News item added successfully",
		NewsItem: article,
	})
}

// ingestURL godoc
// @Summary Generate and store an article from a URL
// @Description Accepts JSON, double-encoded JSON, form, multipart or query payloads.
// @Tags ingest
// @Accept json
// @Accept x-www-form-urlencoded
// @Accept mpfd
// @Produce json
// @Param request body URLRequest true "Source URL and optional token"
// @Param token query string false "Shared secret"
// @Success 201 {object} URLIngestResponse
// @Success 200 {object} URLIngestResponse "Generated but not stored"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/telegram-news [post]
func (r *IngestRouter) ingestURL(c echo.Context) error {
	req, err := r.bindURLRequest(c)
	if err != nil {
		return err
	}
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "URL requerida"})
	}
	if !r.validToken(req.Token) {
		slog.Warn("Rejected ingestion with invalid token", "ip", c.RealIP())
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Token inválido"})
	}

	res, err := r.svc.IngestURL(c.Request().Context(), req.URL)
	if err != nil {
		return urlError(c, err)
	}

	if !res.Stored {
		return c.JSON(http.StatusOK, URLIngestResponse{
			Success: true,
			Message: "Artículo generado pero no guardado",
			Article: res.Generated,
			Stored:  false,
			Error:   res.StoreErr.Error(),
		})
	}
	return c.JSON(http.StatusCreated, URLIngestResponse{
		Success: true,
		Message: "Artículo generado y guardado con éxito",
		Article: res.Article,
		Stored:  true,
	})
}

// previewArticle godoc
// @Summary Generate an article without storing it
// @Tags ingest
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body URLRequest true "Source URL"
// @Success 200 {object} domain.GeneratedArticle
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/generate-article [post]
func (r *IngestRouter) previewArticle(c echo.Context) error {
	req, err := r.bindURLRequest(c)
	if err != nil {
		return err
	}
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "URL requerida"})
	}

	gen, err := r.svc.Preview(c.Request().Context(), req.URL)
	if err != nil {
		return urlError(c, err)
	}
	return c.JSON(http.StatusOK, gen)
}

// telegramWebhook godoc
// @Summary Telegram bot webhook
// @Description Runs URL ingestion in the background for the first link in the message. Always answers 200.
// @Tags ingest
// @Accept json
// @Produce json
// @Param X-Telegram-Bot-Api-Secret-Token header string false "Webhook secret"
// @Success 200 {object} WebhookResponse
// @Router /api/telegram-webhook [post]
func (r *IngestRouter) telegramWebhook(c echo.Context) error {
	if !r.telegram.ValidSecret(c.Request().Header.Get(telegram.SecretHeader)) {
		slog.Warn("Telegram webhook secret mismatch", "ip", c.RealIP())
		return c.JSON(http.StatusOK, WebhookResponse{OK: false, Error: "unauthorized"})
	}

	var upd telegram.Update
	if err := json.NewDecoder(c.Request().Body).Decode(&upd); err != nil {
		return c.JSON(http.StatusOK, WebhookResponse{OK: false, Error: "invalid update"})
	}

	msg := upd.EffectiveMessage()
	if msg == nil {
		return c.JSON(http.StatusOK, WebhookResponse{OK: true, Skipped: "no message"})
	}
	if !r.telegram.Allowed(msg) {
		slog.Warn("Telegram user not authorized", "chat", msg.Chat.ID)
		return c.JSON(http.StatusOK, WebhookResponse{OK: false, Error: "unauthorized"})
	}

	link, ok := telegram.ExtractURL(msg.Body())
	if !ok {
		return c.JSON(http.StatusOK, WebhookResponse{OK: true, Skipped: "no url"})
	}

	ctx := context.WithoutCancel(c.Request().Context())
	r.background.Add(1)
	go func() {
		defer r.background.Done()
		ctx, cancel := context.WithTimeout(ctx, webhookIngestTimeout)
		defer cancel()

		res, err := r.svc.IngestURL(ctx, link)
		switch {
		case err != nil:
			slog.Error("Telegram ingestion failed", "url", link, "error", err)
		case !res.Stored:
			slog.Error("Telegram article generated but not stored", "url", link, "error", res.StoreErr)
		default:
			slog.Info("Telegram article stored", "url", link, "id", res.Article.ID)
		}
	}()

	return c.JSON(http.StatusOK, WebhookResponse{OK: true, Accepted: true, URL: link})
}

func (r *IngestRouter) validToken(got string) bool {
	if r.token == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(r.token), []byte(got)) == 1
}

// bindURLRequest reads url and token from any payload shape the normalizer
// understands. The query string fills whatever the body left empty.
func (r *IngestRouter) bindURLRequest(c echo.Context) (URLRequest, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return URLRequest{}, apperr.NewValidationWrap("unreadable body", err)
	}

	data := r.extractor.Extract(normalizer.Input{
		Body:        body,
		ContentType: c.Request().Header.Get(echo.HeaderContentType),
		Query:       c.QueryParams(),
	})
	req := URLRequest{
		URL:   stringValue(data, "url"),
		Token: stringValue(data, "token"),
	}
	if req.Token == "" {
		req.Token = c.QueryParam("token")
	}
	if req.URL == "" {
		req.URL = c.QueryParam("url")
	}
	req.URL = strings.TrimSpace(req.URL)
	return req, nil
}

func stringValue(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	for k, v := range data {
		if s, ok := v.(string); ok && strings.EqualFold(k, key) {
			return s
		}
	}
	return ""
}

// urlError renders URL-mode failures; nothing was stored.
func urlError(c echo.Context, err error) error {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: ve.Error()})
	}

	reason := "unknown"
	var ge *generator.GenerationError
	if errors.As(err, &ge) {
		reason = ge.Reason()
	}
	slog.Error("Article generation failed", "reason", reason, "error", err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:  err.Error(),
		Reason: reason,
	})
}
