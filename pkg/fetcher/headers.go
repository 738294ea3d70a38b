package fetcher

import (
	"math/rand/v2"
	"net/http"
)

// acceptLanguages contains common browser Accept-Language values
var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"en-US,en;q=0.9,es;q=0.8",
	"en-US,en;q=0.9,fr;q=0.8",
	"en-US,en;q=0.9,de;q=0.8",
	"en-CA,en;q=0.9,fr-CA;q=0.8",
	"en-AU,en;q=0.9",
	"de-DE,de;q=0.9,en;q=0.8",
	"nl-NL,nl;q=0.9,en;q=0.8",
}

// secFetchSites for top-level navigations
var secFetchSites = []string{"none", "same-origin", "cross-site"}

// applyBrowserHeaders makes the request look like a top-level browser navigation.
// Accept-Encoding is left to the transport so gzip bodies are decoded transparently.
func applyBrowserHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	req.Header.Set("Accept-Language", acceptLanguages[rand.IntN(len(acceptLanguages))]) //nolint:gosec // header variation only

	// dnt - 30% chance of being set
	if rand.Float32() < 0.3 { //nolint:gosec // header variation only
		req.Header.Set("DNT", "1")
	}

	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", secFetchSites[rand.IntN(len(secFetchSites))]) //nolint:gosec // header variation only
	req.Header.Set("Sec-Fetch-User", "?1")
}
