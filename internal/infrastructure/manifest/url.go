package manifest

import (
	"net/url"
	"strings"
)

const (
	webHost = "github.com"
	rawHost = "raw.githubusercontent.com"

	// DocumentPath is the path of the manifest document relative to a
	// normalized source URL.
	DocumentPath = "master/plugins.xml"
)

// Normalize rewrites a source URL so it points at the manifest document on
// the raw-content host. URLs targeting the hosting provider's web UI are
// rewritten to the raw host; DocumentPath is appended with a "/" separator
// unless the URL already ends in one.
//
// Unparseable URLs are passed through with only the path appended; the
// subsequent fetch reports them as network failures.
func Normalize(sourceURL string) string {
	if u, err := url.Parse(sourceURL); err == nil && u.Host != "" {
		host := strings.ToLower(u.Host)
		if host == webHost || host == "www."+webHost {
			u.Host = rawHost
			sourceURL = u.String()
		}
	}
	if !strings.HasSuffix(sourceURL, "/") {
		sourceURL += "/"
	}
	return sourceURL + DocumentPath
}
