package rules

import "strings"

// Fixed User-Agent marker vocabularies consumed by the automation and
// device-consistency rule modules.
var (
	mobileUAMarkers = []string{"android", "iphone", "ipad", "ipod", "mobile"}

	automationMarkers = []string{
		"headless", "phantomjs", "puppeteer", "playwright", "selenium", "webdriver",
	}

	botUAMarkers = []string{"bot", "crawler", "spider", "scrapy", "curl", "wget"}

	strongBotUAMarkers = []string{
		"curl/", "wget/", "python-requests", "go-http-client", "httpclient",
	}
)

func containsAny(value string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(value, marker) {
			return true
		}
	}
	return false
}

func hasMobileUA(ua string) bool {
	return containsAny(ua, mobileUAMarkers)
}

// HasMobileUA exports hasMobileUA so the engine can classify a request's
// User-Agent once and share the result across every rule module via
// Derived.IsMobileUA.
func HasMobileUA(ua string) bool {
	return hasMobileUA(ua)
}

func isAndroidUA(ua string) bool {
	return strings.Contains(ua, "android")
}

func isIOSUA(ua string) bool {
	return strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad") || strings.Contains(ua, "ipod")
}

func isDesktopMacUA(ua string) bool {
	return strings.Contains(ua, "macintosh")
}

func isChromiumUA(ua string) bool {
	for _, token := range []string{"chrome/", "chromium", "crios", "edg/", "opr/"} {
		if strings.Contains(ua, token) {
			return true
		}
	}
	return false
}

func isTabletUA(ua string) bool {
	if strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet") {
		return true
	}
	return strings.Contains(ua, "android") && !strings.Contains(ua, "mobile")
}
