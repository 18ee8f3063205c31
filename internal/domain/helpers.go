package domain

import "strings"

// ExpandURL substitutes the version into a download URL template using the
// {version} placeholder.
func ExpandURL(template, version string) string {
	return strings.ReplaceAll(template, "{version}", version)
}
