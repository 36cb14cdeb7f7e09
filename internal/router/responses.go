package router

import "github.com/DjordjeVuckovic/news-desk/internal/domain"

type NewsCreatedResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	NewsItem *domain.Article `json:"newsItem"`
}

type MissingFieldsResponse struct {
	Success        bool           `json:"success"`
	Message        string         `json:"message"`
	MissingFields  []string       `json:"missingFields"`
	ReceivedData   map[string]any `json:"receivedData"`
	RequiredFields []string       `json:"requiredFields"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error"`
	Reason  string `json:"reason,omitempty"`
}

// URLIngestResponse carries the stored record, or the generated fields when
// storing failed.
type URLIngestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Article any    `json:"article"`
	Stored  bool   `json:"stored"`
	Error   string `json:"error,omitempty"`
}

type URLRequest struct {
	URL   string `json:"url" form:"url" query:"url"`
	Token string `json:"token,omitempty" form:"token" query:"token"`
}

type WebhookResponse struct {
	OK       bool   `json:"ok"`
	Accepted bool   `json:"accepted,omitempty"`
	URL      string `json:"url,omitempty"`
	Skipped  string `json:"skipped,omitempty"`
	Error    string `json:"error,omitempty"`
}

type RevalidateResponse struct {
	Revalidated bool     `json:"revalidated"`
	Path        string   `json:"path"`
	Paths       []string `json:"paths"`
	Now         int64    `json:"now"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}
