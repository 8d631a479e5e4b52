// Package link turns a published file name into the URL shown to the user.
package link

import (
	"path/filepath"
	"strings"
)

type Style int

const (
	// StyleAuto prefixes a scheme, or routes notebooks through nbviewer.
	StyleAuto Style = iota
	// StyleDirect always returns the plain http URL.
	StyleDirect
	// StyleImage wraps the URL in Markdown image markup.
	StyleImage
)

const nbviewer = "http://nbviewer.jupyter.org/url/"

// Base joins the public prefix, the optional sub-folder and the name.
func Base(prefix, folder, name string) string {
	prefix = strings.TrimRight(prefix, "/")
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return prefix + "/" + name
	}
	return prefix + "/" + folder + "/" + name
}

// Present applies the presentation style to a URL built by Base. localPath
// is only used to detect notebooks.
func Present(base string, style Style, localPath string) string {
	switch {
	case style == StyleDirect:
		return withScheme(base)
	case style == StyleImage:
		return "![](" + withScheme(base) + ")"
	case strings.EqualFold(filepath.Ext(localPath), ".ipynb"):
		return nbviewer + stripScheme(base) + "?flush_cache=true"
	default:
		return withScheme(base)
	}
}

func withScheme(url string) string {
	if hasScheme(url) {
		return url
	}
	return "http://" + url
}

func stripScheme(url string) string {
	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(url, scheme) {
			return strings.TrimPrefix(url, scheme)
		}
	}
	return url
}

func hasScheme(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
