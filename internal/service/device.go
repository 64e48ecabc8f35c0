package service

import (
	"regexp"
	"strings"

	"github.com/mssola/useragent"
)

const unknownDevice = "Unknown Device"

var (
	androidVersionRe = regexp.MustCompile(`Android (\d+(?:\.\d+)?)`)
	iosVersionRe     = regexp.MustCompile(`OS (\d+(?:_\d+)?)`)
)

// DescribeDevice строит подпись устройства и браузера по User-Agent,
// например "iPhone (iOS 17.4) - Safari". Не возвращает ошибок.
func DescribeDevice(userAgent string) string {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return unknownDevice
	}

	device := describeOS(userAgent)
	if device == unknownDevice {
		return unknownDevice
	}

	ua := useragent.New(userAgent)
	if ua.Bot() {
		return device
	}
	if browser, _ := ua.Browser(); browser != "" {
		return device + " - " + browser
	}
	return device
}

func describeOS(userAgent string) string {
	isAndroid := strings.Contains(userAgent, "Android")

	switch {
	case isAndroid:
		return "Android Device (Android " + firstGroup(androidVersionRe, userAgent) + ")"
	case strings.Contains(userAgent, "iPhone"):
		return "iPhone (iOS " + iosVersion(userAgent) + ")"
	case strings.Contains(userAgent, "iPad"):
		return "iPad (iOS " + iosVersion(userAgent) + ")"
	case strings.Contains(userAgent, "Windows"):
		return "Windows Device"
	case strings.Contains(userAgent, "Macintosh"):
		return "Mac Device"
	case strings.Contains(userAgent, "Linux"):
		return "Linux Device"
	default:
		return unknownDevice
	}
}

func iosVersion(userAgent string) string {
	return strings.Replace(firstGroup(iosVersionRe, userAgent), "_", ".", 1)
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return "Unknown"
	}
	return m[1]
}
