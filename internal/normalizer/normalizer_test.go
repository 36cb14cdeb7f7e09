package normalizer

import (
	"errors"
	"net/url"
	"testing"

	"github.com/DjordjeVuckovic/news-desk/internal/apperr"
	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validJSON = `{"title":"T","excerpt":"E","category":"tech","imageUrl":"http://x/i.png","content":"C"}`

func requireMissing(t *testing.T, err error) *apperr.MissingFieldsError {
	t.Helper()
	var mf *apperr.MissingFieldsError
	require.True(t, errors.As(err, &mf), "expected MissingFieldsError, got %v", err)
	return mf
}

func TestNormalize_JSONObject(t *testing.T) {
	got, err := New().Normalize(Input{Body: []byte(validJSON), ContentType: "application/json"})
	require.NoError(t, err)

	assert.Equal(t, domain.ArticleInput{
		Title:    "T",
		Excerpt:  "E",
		Category: "tech",
		ImageURL: "http://x/i.png",
		Content:  "C",
		Featured: false,
	}, got)
}

func TestNormalize_EmptyObjectEchoesEmptyMap(t *testing.T) {
	_, err := New().Normalize(Input{Body: []byte(`{}`), ContentType: "application/json"})

	mf := requireMissing(t, err)
	assert.Equal(t, domain.RequiredFields, mf.Missing)
	assert.Equal(t, map[string]any{}, mf.Received)
}

func TestNormalize_EmptyBody(t *testing.T) {
	_, err := New().Normalize(Input{})

	mf := requireMissing(t, err)
	assert.Equal(t, domain.RequiredFields, mf.Missing)
	assert.NotNil(t, mf.Received)
}

func TestNormalize_ReportsExactMissingSet(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		missing []string
	}{
		{
			name:    "missing title",
			body:    `{"excerpt":"E","category":"tech","imageUrl":"http://x/i.png","content":"C"}`,
			missing: []string{"title"},
		},
		{
			name:    "missing image and content",
			body:    `{"title":"T","excerpt":"E","category":"tech"}`,
			missing: []string{"imageUrl", "content"},
		},
		{
			name:    "blank strings count as missing",
			body:    `{"title":"  ","excerpt":"E","category":"","imageUrl":"http://x/i.png","content":"C"}`,
			missing: []string{"title", "category"},
		},
		{
			name:    "null values count as missing",
			body:    `{"title":null,"excerpt":"E","category":"c","imageUrl":"http://x/i.png","content":"C"}`,
			missing: []string{"title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Normalize(Input{Body: []byte(tt.body)})
			mf := requireMissing(t, err)
			assert.Equal(t, tt.missing, mf.Missing)
		})
	}
}

func TestNormalize_ReceivedDataIsUnmodified(t *testing.T) {
	body := `{"title":"  T  ","image_url":"http://x/i.png","extra":42,"featured":"yes"}`

	_, err := New().Normalize(Input{Body: []byte(body)})

	mf := requireMissing(t, err)
	assert.Equal(t, map[string]any{
		"title":     "  T  ",
		"image_url": "http://x/i.png",
		"extra":     float64(42),
		"featured":  "yes",
	}, mf.Received)
	assert.Equal(t, []string{"excerpt", "category", "content"}, mf.Missing)
}

func TestNormalize_FeaturedCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "absent", value: "", want: false},
		{name: "bool true", value: `,"featured":true`, want: true},
		{name: "bool false", value: `,"featured":false`, want: false},
		{name: "string true", value: `,"featured":"true"`, want: true},
		{name: "string on", value: `,"featured":"on"`, want: true},
		{name: "string junk", value: `,"featured":"nope"`, want: false},
		{name: "number", value: `,"featured":1`, want: true},
		{name: "zero", value: `,"featured":0`, want: false},
		{name: "legacy alias", value: `,"is_featured":true`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validJSON[:len(validJSON)-1] + tt.value + "}"
			got, err := New().Normalize(Input{Body: []byte(body)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Featured)
		})
	}
}

func TestNormalize_NestedJSONString(t *testing.T) {
	body := `{"body":"{\"title\":\"Inner\",\"excerpt\":\"E\",\"category\":\"tech\",\"imageUrl\":\"http://x/i.png\",\"content\":\"C\"}","title":"outer"}`

	got, err := New().Normalize(Input{Body: []byte(body)})
	require.NoError(t, err)

	assert.Equal(t, "Inner", got.Title)
	assert.Equal(t, "C", got.Content)
}

func TestNormalize_NestedJSONStringValidatesInner(t *testing.T) {
	body := `{"json":"{\"title\":\"Inner\"}","excerpt":"E","category":"c","imageUrl":"u","content":"C"}`

	_, err := New().Normalize(Input{Body: []byte(body)})

	mf := requireMissing(t, err)
	assert.Equal(t, []string{"excerpt", "category", "imageUrl", "content"}, mf.Missing)
	assert.Equal(t, map[string]any{"title": "Inner"}, mf.Received)
}

func TestNormalize_NestedEmptyObjectIsIgnored(t *testing.T) {
	body := validJSON[:len(validJSON)-1] + `,"meta":"{}"}`

	got, err := New().Normalize(Input{Body: []byte(body)})
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
}

func TestNormalize_DoubleEncodedBody(t *testing.T) {
	body := `"{\"title\":\"T\",\"excerpt\":\"E\",\"category\":\"tech\",\"imageUrl\":\"http://x/i.png\",\"content\":\"C\"}"`

	got, err := New().Normalize(Input{Body: []byte(body), ContentType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
}

func TestNormalize_FormEncoded(t *testing.T) {
	form := url.Values{
		"title":    {"T"},
		"excerpt":  {"E"},
		"category": {"tech"},
		"imageUrl": {"http://x/i.png"},
		"content":  {"C"},
		"featured": {"on"},
	}

	got, err := New().Normalize(Input{
		Body:        []byte(form.Encode()),
		ContentType: "application/x-www-form-urlencoded; charset=utf-8",
	})
	require.NoError(t, err)

	assert.Equal(t, "T", got.Title)
	assert.True(t, got.Featured)
}

func TestNormalize_UndeclaredFormFallsBackFromJSON(t *testing.T) {
	body := "title=T&excerpt=E&category=tech&imageUrl=http%3A%2F%2Fx%2Fi.png&content=C"

	got, err := New().Normalize(Input{Body: []byte(body), ContentType: "application/json"})
	require.NoError(t, err)
	assert.Equal(t, "http://x/i.png", got.ImageURL)
}

func TestNormalize_QueryParams(t *testing.T) {
	q := url.Values{
		"title":     {"T"},
		"excerpt":   {"E"},
		"category":  {"tech"},
		"image_url": {"http://x/i.png"},
		"content":   {"C"},
	}

	got, err := New().Normalize(Input{Query: q})
	require.NoError(t, err)
	assert.Equal(t, "http://x/i.png", got.ImageURL)
}

func TestNormalize_BodyWinsOverQuery(t *testing.T) {
	got, err := New().Normalize(Input{
		Body:  []byte(validJSON),
		Query: url.Values{"title": {"from-query"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
}

func TestNormalize_SourceURL(t *testing.T) {
	body := validJSON[:len(validJSON)-1] + `,"source_url":"https://src.example/a"}`

	got, err := New().Normalize(Input{Body: []byte(body)})
	require.NoError(t, err)
	require.NotNil(t, got.SourceURL)
	assert.Equal(t, "https://src.example/a", *got.SourceURL)
}

func TestNormalizeMap(t *testing.T) {
	got, err := New().NormalizeMap(map[string]any{
		"title":    "T",
		"excerpt":  "E",
		"category": "tech",
		"imageUrl": "http://x/i.png",
		"content":  "C",
		"featured": true,
	})
	require.NoError(t, err)
	assert.True(t, got.Featured)

	_, err = New().NormalizeMap(nil)
	mf := requireMissing(t, err)
	assert.Equal(t, map[string]any{}, mf.Received)
}

func TestNormalize_CustomChain(t *testing.T) {
	n := New(WithChain(Extractor{Name: "query", Extract: extractQuery}))

	_, err := n.Normalize(Input{Body: []byte(validJSON)})
	requireMissing(t, err)
}
