package logs

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// HasRequestContext is implemented by errors that carry the HTTP request
// which failed.
type HasRequestContext interface {
	RequestContext() RequestContext
}

// RequestContext describes an outbound HTTP request and its response.
type RequestContext struct {
	Host         string
	URL          string
	Method       string
	Config       map[string]any
	Header       http.Header
	Form         url.Values
	ResponseBody []byte
}

// FlattenHeader renders headers as "Name: v1, v2" entries sorted by name
// and joined with "; ".
func FlattenHeader(h http.Header) string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(h[name], ", "))
	}
	return strings.Join(parts, "; ")
}

// ProviderID reads the first provider from a posted form, either as the
// "providers[0]" field or the first "providers" value. Zero and
// non-numeric values report false.
func ProviderID(form url.Values) (int, bool) {
	raw := form.Get("providers[0]")
	if raw == "" {
		raw = form.Get("providers")
	}
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// requestFields returns the context entries for rc. Empty parts are left out.
func requestFields(rc RequestContext, bodyLimit int) map[string]any {
	out := make(map[string]any, 3)

	request := make(map[string]any, 5)
	if rc.Host != "" {
		request["host"] = rc.Host
	}
	if rc.URL != "" {
		request["url"] = rc.URL
	}
	if rc.Method != "" {
		request["method"] = rc.Method
	}
	if len(rc.Config) > 0 {
		request["config"] = rc.Config
	}
	if len(rc.Header) > 0 {
		request["headers"] = FlattenHeader(rc.Header)
	}
	if len(request) > 0 {
		out["request"] = request
	}

	if id, ok := ProviderID(rc.Form); ok {
		out["providerId"] = id
	}

	if len(rc.ResponseBody) > 0 && bodyLimit > 0 {
		body := rc.ResponseBody
		if len(body) > bodyLimit {
			body = body[:bodyLimit]
		}
		out["responseBody"] = strings.ToValidUTF8(string(body), "")
	}
	return out
}
