package generator

import (
	"encoding/json"
	"strings"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
)

// ExtractJSON returns the text between the first '{' and the last '}',
// inclusive.
func ExtractJSON(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// ParseArticle decodes model output. It never fails: output that is not a
// usable JSON object yields domain.FallbackArticle and ok=false.
func ParseArticle(raw string) (article *domain.GeneratedArticle, ok bool) {
	obj, found := ExtractJSON(raw)
	if !found {
		return domain.FallbackArticle(raw), false
	}

	var gen domain.GeneratedArticle
	if err := json.Unmarshal([]byte(obj), &gen); err != nil {
		return domain.FallbackArticle(raw), false
	}
	if strings.TrimSpace(gen.Title) == "" && strings.TrimSpace(gen.Content) == "" {
		return domain.FallbackArticle(raw), false
	}
	return &gen, true
}
