package pathkey

import "net/url"

// PublicURL joins an object key onto the configured public base URL,
// percent-escaping the key's path segments. Empty base means objects are not
// publicly addressed and the result is empty.
func PublicURL(baseURL, key string) string {
	if baseURL == "" {
		return ""
	}
	escaped := (&url.URL{Path: key}).EscapedPath()
	return baseURL + "/" + escaped
}
