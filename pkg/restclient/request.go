package restclient

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-api-client/pkg/httpclient"
)

// knownMethods are the HTTP verbs the client recognizes at all. A verb
// outside this set is rejected before the per-endpoint allow-list check.
var knownMethods = map[string]struct{}{
	"GET":    {},
	"POST":   {},
	"PATCH":  {},
	"PUT":    {},
	"DELETE": {},
}

func isKnownMethod(method string) bool {
	_, ok := knownMethods[method]
	return ok
}

// bodyMethods carry the serialized request options as their payload.
var bodyMethods = map[string]struct{}{
	"POST":  {},
	"PUT":   {},
	"PATCH": {},
}

func isBodyMethod(method string) bool {
	_, ok := bodyMethods[method]
	return ok
}

// buildRequest assembles the transport descriptor for one call. The
// method must already be uppercased and the options non-nil.
func buildRequest(hostURL string, ep Endpoint, method string, opts *RequestOptions, format ResponseFormat) (httpclient.Request, error) {
	target := hostURL + encodeURI(buildPath(ep, opts)+buildQuery(opts.Filter))

	req := httpclient.Request{
		Method: method,
		URL:    target,
		Headers: map[string]string{
			"Content-Type": format.ContentType(),
		},
	}

	if isBodyMethod(method) {
		body, err := json.Marshal(opts)
		if err != nil {
			return httpclient.Request{}, fmt.Errorf("encode request body: %w", err)
		}
		req.Body = body
	}

	return req, nil
}

// buildPath derives the request path. A parented endpoint is addressed
// under its parent's name and contributes its own URL fragment after the
// optional id segment; an unparented endpoint is addressed by name alone
// and its URL fragment is not appended.
func buildPath(ep Endpoint, opts *RequestOptions) string {
	var b strings.Builder

	if ep.Parent != "" {
		b.WriteByte('/')
		b.WriteString(ep.Parent)
	} else {
		b.WriteByte('/')
		b.WriteString(ep.Name)
	}

	if opts.ID != "" {
		b.WriteByte('/')
		b.WriteString(opts.ID)
	}

	if ep.Parent != "" {
		b.WriteString(ep.URL)
	}

	return b.String()
}

// buildQuery renders the filter as a query string in declaration order.
// Values are inserted as-is; escaping happens once over the whole path
// and query in encodeURI.
func buildQuery(filter Filter) string {
	if len(filter) == 0 {
		return ""
	}

	var b strings.Builder
	for i, p := range filter {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

// encodeURIKeep lists the punctuation left intact besides alphanumerics.
// '%' is absent, so already-encoded input is escaped a second time.
const encodeURIKeep = ";,/?:@&=+$-_.!~*'()#"

// encodeURI percent-encodes every byte outside the kept set, matching
// whole-string URI encoding over the UTF-8 representation.
func encodeURI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIKept(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func isURIKept(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte(encodeURIKeep, c) >= 0
}
