package normalizer

import (
	"encoding/json"
	"errors"
	"log/slog"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/news-desk/internal/apperr"
	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Normalizer validates and coerces heterogeneous payloads into the canonical
// article create payload. It performs no I/O.
type Normalizer struct {
	chain    []Extractor
	validate *validator.Validate
}

type Option func(*Normalizer)

// WithChain replaces the extractor chain.
func WithChain(chain ...Extractor) Option {
	return func(n *Normalizer) {
		n.chain = chain
	}
}

func New(opts ...Option) *Normalizer {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	n := &Normalizer{
		chain:    DefaultChain,
		validate: v,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Extract runs the extractor chain and the nested-payload unwrap. It never
// fails: an unrecognised payload yields an empty map.
func (n *Normalizer) Extract(in Input) map[string]any {
	data := map[string]any{}
	for _, ex := range n.chain {
		if obj, ok := ex.Extract(in); ok {
			slog.Debug("Payload extracted", "extractor", ex.Name, "fields", len(obj))
			data = obj
			break
		}
	}

	data, key := unwrapNested(data)
	if key != "" {
		slog.Debug("Unwrapped nested JSON payload", "key", key)
	}
	return data
}

func (n *Normalizer) Normalize(in Input) (domain.ArticleInput, error) {
	return n.normalize(n.Extract(in))
}

// NormalizeMap validates an already-parsed object, unwrapping a nested JSON
// payload first.
func (n *Normalizer) NormalizeMap(data map[string]any) (domain.ArticleInput, error) {
	if data == nil {
		data = map[string]any{}
	}
	data, _ = unwrapNested(data)
	return n.normalize(data)
}

// normalize returns an *apperr.MissingFieldsError carrying data untouched
// when required fields are empty.
func (n *Normalizer) normalize(data map[string]any) (domain.ArticleInput, error) {
	in := domain.ArticleInput{
		Title:    stringField(data, "title"),
		Excerpt:  stringField(data, "excerpt"),
		Category: stringField(data, "category"),
		ImageURL: stringField(data, "imageUrl"),
		Content:  stringField(data, "content"),
		Featured: boolField(data, "featured"),
	}
	if src := stringField(data, "sourceUrl"); src != "" {
		in.SourceURL = &src
	}

	if err := n.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return domain.ArticleInput{}, apperr.NewValidationWrap("invalid payload", err)
		}
		missing := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			missing = append(missing, fe.Field())
		}
		return domain.ArticleInput{}, apperr.NewMissingFields(missing, data)
	}

	return in, nil
}

// aliases maps a folded key (lowercase, no '_' or '-') to its canonical name.
var aliases = map[string]string{
	"title":      "title",
	"excerpt":    "excerpt",
	"category":   "category",
	"content":    "content",
	"imageurl":   "imageUrl",
	"image":      "imageUrl",
	"featured":   "featured",
	"isfeatured": "featured",
	"sourceurl":  "sourceUrl",
}

func foldKey(k string) string {
	k = strings.ToLower(k)
	k = strings.ReplaceAll(k, "_", "")
	return strings.ReplaceAll(k, "-", "")
}

// lookup prefers the exact canonical key, then any alias in key order.
func lookup(data map[string]any, canonical string) (any, bool) {
	if v, ok := data[canonical]; ok {
		return v, true
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if aliases[foldKey(k)] == canonical {
			return data[k], true
		}
	}
	return nil, false
}

func stringField(data map[string]any, canonical string) string {
	v, ok := lookup(data, canonical)
	if !ok {
		return ""
	}
	return strings.TrimSpace(toString(v))
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		if len(t) == 0 {
			return ""
		}
		return toString(t[0])
	case []string:
		if len(t) == 0 {
			return ""
		}
		return t[0]
	default:
		return ""
	}
}

func boolField(data map[string]any, canonical string) bool {
	v, ok := lookup(data, canonical)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "on", "yes", "si", "sí":
			return true
		}
	}
	return false
}
