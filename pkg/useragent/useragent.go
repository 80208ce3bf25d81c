// Package useragent derives a client platform from a browser user-agent
// string. Parsing is best-effort: an unrecognized string yields empty
// fields, never an error.
package useragent

import (
	"regexp"
	"strings"
)

var (
	iosVersionRegex     = regexp.MustCompile(`OS (\d+(?:[_.]\d+)*)`)
	androidVersionRegex = regexp.MustCompile(`Android (\d+(?:\.\d+)*)`)
	windowsVersionRegex = regexp.MustCompile(`Windows NT (\d+(?:\.\d+)*)`)
	macVersionRegex     = regexp.MustCompile(`Mac OS X (\d+(?:[_.]\d+)*)`)
)

// Platform returns the platform name and version reported by a user-agent
// string. Either value may be empty when the string gives nothing away.
func Platform(ua string) (string, string) {
	switch {
	case strings.Contains(ua, "iPhone"), strings.Contains(ua, "iPad"), strings.Contains(ua, "iPod"):
		return "iOS", matchVersion(iosVersionRegex, ua)
	case strings.Contains(ua, "Android"):
		return "Android", matchVersion(androidVersionRegex, ua)
	case strings.Contains(ua, "Windows"):
		return "Windows", matchVersion(windowsVersionRegex, ua)
	case strings.Contains(ua, "Mac OS X"):
		return "Mac OS", matchVersion(macVersionRegex, ua)
	case strings.Contains(ua, "CrOS"):
		return "ChromeOS", ""
	case strings.Contains(ua, "Linux"):
		return "Linux", ""
	}
	return "", ""
}

func matchVersion(re *regexp.Regexp, ua string) string {
	m := re.FindStringSubmatch(ua)
	if m == nil {
		return ""
	}
	// Apple user agents separate version parts with underscores.
	return strings.ReplaceAll(m[1], "_", ".")
}
