package model

import "strings"

const githubBaseURL = "https://github.com"

// ActionURL returns the GitHub URL of an action reference such as
// "actions/checkout@v4" or "org/repo/path@ref". Local ("./", "../") and
// "docker://" references have no URL and yield "".
func ActionURL(uses string) string {
	if uses == "" {
		return ""
	}
	if strings.HasPrefix(uses, "./") || strings.HasPrefix(uses, "../") {
		return ""
	}
	if strings.HasPrefix(uses, "docker://") {
		return ""
	}

	left, ref, _ := strings.Cut(uses, "@")
	segments := strings.Split(left, "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return ""
	}

	base := githubBaseURL + "/" + segments[0] + "/" + segments[1]
	if ref == "" {
		return base
	}
	if subpath := strings.Join(segments[2:], "/"); subpath != "" {
		return base + "/tree/" + ref + "/" + subpath
	}
	return base + "/tree/" + ref
}
