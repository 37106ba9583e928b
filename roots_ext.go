package mcp

import "net/url"

// RootExt provides containment checks over a list of Root entries, letting a server
// verify that a client-supplied URI falls under one of the roots it was granted access
// to before acting on it.
type RootExt struct {
	roots []Root
}

// NewRootExt builds a RootExt from a RootList, as returned by RootsListHandler.RootsList.
func NewRootExt(list RootList) RootExt {
	return RootExt{roots: list.Roots}
}

// IsWithinRoots reports whether uri is contained within any of the roots: same scheme,
// same host, and a path that either equals the root's path or is nested under it on a
// "/" boundary. A malformed uri or an empty root list never matches.
func (r RootExt) IsWithinRoots(uri string) bool {
	target, err := url.Parse(uri)
	if err != nil {
		return false
	}

	for _, root := range r.roots {
		rootURL, err := url.Parse(root.URI)
		if err != nil {
			continue
		}

		if withinRoot(rootURL, target) {
			return true
		}
	}

	return false
}

func withinRoot(root, target *url.URL) bool {
	if root.Scheme != target.Scheme || root.Host != target.Host {
		return false
	}

	rootPath := root.Path
	targetPath := target.Path

	if rootPath == targetPath {
		return true
	}

	if rootPath == "" || rootPath == "/" {
		return true
	}

	prefix := rootPath
	if prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}

	return len(targetPath) > len(prefix) && targetPath[:len(prefix)] == prefix
}
