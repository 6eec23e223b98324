package heartbeat

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath converts an editor-supplied file URI into a local path.
//
// Example:
// file:///var/log/test.txt    -> /var/log/test.txt
// file:///C:/path/to/file.txt -> C:\path\to\file.txt
//
// Locators that do not denote a local file fall back to a lexical strip of
// the scheme prefix. Always returns a string, never fails.
func NormalizePath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" || u.Path == "" {
		return stripScheme(uri)
	}

	path := u.Path
	if runtime.GOOS == "windows" {
		// /C:/path -> C:\path
		if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
			path = path[1:]
		}
		path = filepath.FromSlash(path)
	}
	return filepath.Clean(path)
}

func stripScheme(uri string) string {
	if i := strings.Index(uri, "://"); i >= 0 {
		return uri[i+3:]
	}
	if i := strings.IndexByte(uri, ':'); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
