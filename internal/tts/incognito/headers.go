package incognito

import "net/http"

// Headers approximating Chrome 123 on Windows in a private window. The exact
// values only matter to the remote site's bot heuristics.
//
// Accept-Encoding is left to net/http so compressed bodies are decoded
// transparently.
const (
	secCHUA         = `"Google Chrome";v="123", "Not:A-Brand";v="8", "Chromium";v="123"`
	acceptDocument  = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"
	acceptLanguage  = "en-US,en;q=0.9"
	csrfHeader      = "X-CSRF-TOKEN"
	csrfFormField   = "csrf_token"
	requestedWithXH = "XMLHttpRequest"
)

// baseHeaders are sent on every request of a session.
func baseHeaders(userAgent string) http.Header {
	h := http.Header{}
	h.Set("Accept-Language", acceptLanguage)
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	h.Set("DNT", "1")
	h.Set("Sec-CH-UA", secCHUA)
	h.Set("Sec-CH-UA-Mobile", "?0")
	h.Set("Sec-CH-UA-Platform", `"Windows"`)
	h.Set("User-Agent", userAgent)
	return h
}

// documentHeaders is the top-level navigation variant used for the landing page.
func documentHeaders(userAgent string) http.Header {
	h := baseHeaders(userAgent)
	h.Set("Accept", acceptDocument)
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-User", "?1")
	h.Set("Upgrade-Insecure-Requests", "1")
	return h
}

// xhrHeaders is the same-origin fetch variant used for the synthesis call.
func xhrHeaders(userAgent, origin, referer string) http.Header {
	h := baseHeaders(userAgent)
	h.Set("Accept", "*/*")
	h.Set("Origin", origin)
	h.Set("Referer", referer)
	h.Set("Sec-Fetch-Dest", "empty")
	h.Set("Sec-Fetch-Mode", "cors")
	h.Set("Sec-Fetch-Site", "same-origin")
	h.Set("X-Requested-With", requestedWithXH)
	return h
}
