package normalizer

import (
	"bytes"
	"encoding/json"
	"mime"
	"mime/multipart"
	"net/url"
	"sort"
	"strings"
)

// Input is an inbound payload whose shape is not known up front.
type Input struct {
	Body        []byte
	ContentType string
	Query       url.Values
}

// Extractor turns one payload shape into a flat object. ok is false when the
// shape does not apply, so the next extractor in the chain is tried.
type Extractor struct {
	Name    string
	Extract func(in Input) (data map[string]any, ok bool)
}

// DefaultChain is tried in order; the first extractor that succeeds wins.
var DefaultChain = []Extractor{
	{Name: "json_object", Extract: extractJSONObject},
	{Name: "json_string", Extract: extractJSONString},
	{Name: "multipart", Extract: extractMultipart},
	{Name: "form", Extract: extractForm},
	{Name: "query", Extract: extractQuery},
}

func extractJSONObject(in Input) (map[string]any, bool) {
	obj, ok := parseObject(in.Body)
	if !ok || len(obj) == 0 {
		return nil, false
	}
	return obj, true
}

// extractJSONString handles bodies that were JSON-encoded twice, i.e. a JSON
// string literal whose content is an object.
func extractJSONString(in Input) (map[string]any, bool) {
	body := bytes.TrimSpace(in.Body)
	if len(body) == 0 || body[0] != '"' {
		return nil, false
	}
	var inner string
	if err := json.Unmarshal(body, &inner); err != nil {
		return nil, false
	}
	obj, ok := parseObject([]byte(inner))
	if !ok || len(obj) == 0 {
		return nil, false
	}
	return obj, true
}

// maxMultipartMemory bounds the in-memory part of a multipart form. File
// parts beyond it spill to temp files, which are removed after reading.
const maxMultipartMemory = 8 << 20

// extractMultipart reads the text fields of a multipart/form-data body. File
// parts are ignored; the first value wins for repeated fields.
func extractMultipart(in Input) (map[string]any, bool) {
	if len(in.Body) == 0 || in.ContentType == "" {
		return nil, false
	}
	mediaType, params, err := mime.ParseMediaType(in.ContentType)
	if err != nil || mediaType != "multipart/form-data" || params["boundary"] == "" {
		return nil, false
	}

	form, err := multipart.NewReader(bytes.NewReader(in.Body), params["boundary"]).ReadForm(maxMultipartMemory)
	if err != nil {
		return nil, false
	}
	defer form.RemoveAll()

	obj := flattenValues(form.Value)
	if len(obj) == 0 {
		return nil, false
	}
	return obj, true
}

// extractForm treats the body as a flat key/value map. It runs for declared
// form bodies and for any body that is not valid JSON.
func extractForm(in Input) (map[string]any, bool) {
	body := bytes.TrimSpace(in.Body)
	if len(body) == 0 {
		return nil, false
	}
	if isMultipart(in.ContentType) {
		return nil, false
	}
	if !isFormContentType(in.ContentType) && json.Valid(body) {
		return nil, false
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, false
	}
	obj := flattenValues(values)
	if len(obj) == 0 {
		return nil, false
	}
	return obj, true
}

func extractQuery(in Input) (map[string]any, bool) {
	obj := flattenValues(in.Query)
	if len(obj) == 0 {
		return nil, false
	}
	return obj, true
}

func parseObject(raw []byte) (map[string]any, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	if obj == nil {
		obj = map[string]any{}
	}
	return obj, true
}

func flattenValues(values url.Values) map[string]any {
	obj := make(map[string]any, len(values))
	for k, v := range values {
		if k == "" || len(v) == 0 {
			continue
		}
		obj[k] = v[0]
	}
	return obj
}

func isFormContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded"
}

func isMultipart(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && strings.HasPrefix(mediaType, "multipart/")
}

// unwrapNested replaces data with the first top-level string value (in key
// order) that holds a non-empty JSON object. Upstream automation tools
// sometimes nest the real payload that way.
func unwrapNested(data map[string]any) (map[string]any, string) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		s, ok := data[k].(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
			continue
		}
		obj, ok := parseObject([]byte(s))
		if ok && len(obj) > 0 {
			return obj, k
		}
	}
	return data, ""
}
