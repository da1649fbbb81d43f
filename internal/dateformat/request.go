package dateformat

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// ForRequest picks the formatter for r: an explicit ?locale= wins over the
// Accept-Language header, and def is used when neither matches.
func ForRequest(r *http.Request, def *Formatter) *Formatter {
	if q := strings.TrimSpace(r.URL.Query().Get("locale")); q != "" {
		if tag, err := language.Parse(q); err == nil {
			if _, idx, conf := matcher.Match(tag); conf != language.No {
				return &Formatter{idx: idx, loc: def.loc}
			}
		}
	}
	if h := r.Header.Get("Accept-Language"); h != "" {
		tags, _, err := language.ParseAcceptLanguage(h)
		if err == nil && len(tags) > 0 {
			if _, idx, conf := matcher.Match(tags...); conf != language.No {
				return &Formatter{idx: idx, loc: def.loc}
			}
		}
	}
	return def
}
