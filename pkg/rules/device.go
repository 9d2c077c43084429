package rules

import "github.com/gokaycavdar/fraudguard/pkg/models"

// androidPlatformMarkers and iosPlatformMarkers list the navigator.platform
// substrings considered consistent with a UA claiming Android/iOS.
var (
	androidPlatformMarkers = []string{"android", "linux"}
	iosPlatformMarkers     = []string{"iphone", "ipad", "ipod", "macintel"}
)

// DeviceRule cross-checks the User-Agent, navigator.platform, client hints,
// screen/viewport geometry, and touch-point reporting for internal
// consistency. A genuine browser rarely disagrees with itself this much.
type DeviceRule struct{}

func NewDeviceRule() *DeviceRule {
	return &DeviceRule{}
}

func (r *DeviceRule) Name() string {
	return "DeviceConsistency"
}

func exceedsScreen(value, screenValue, tolerance int) bool {
	return value > screenValue+tolerance
}

func invalidAvailableDimension(avail *int, screenValue int) bool {
	if avail == nil {
		return false
	}
	return *avail > screenValue+20
}

func platformFamilyFromUserAgent(ua string) string {
	switch {
	case contains(ua, "android"):
		return "android"
	case contains(ua, "iphone") || contains(ua, "ipad") || contains(ua, "ipod"):
		return "apple"
	case contains(ua, "windows"):
		return "windows"
	case contains(ua, "macintosh"):
		return "apple"
	case contains(ua, "cros"):
		return "chromeos"
	case contains(ua, "linux"):
		return "linux"
	default:
		return ""
	}
}

func platformFamilyFromNavigator(platform string) string {
	if platform == "" {
		return ""
	}
	switch {
	case hasPrefix(platform, "win"):
		return "windows"
	case contains(platform, "android"):
		return "android"
	case contains(platform, "cros"):
		return "chromeos"
	case contains(platform, "linux") || contains(platform, "x11"):
		return "linux"
	case contains(platform, "mac") || contains(platform, "iphone") ||
		contains(platform, "ipad") || contains(platform, "ipod") || contains(platform, "macintel"):
		return "apple"
	default:
		return ""
	}
}

func platformFamilyFromClientHints(platform string) string {
	marker := trimQuotes(platform)
	switch marker {
	case "windows":
		return "windows"
	case "android":
		return "android"
	case "ios", "macos":
		return "apple"
	case "linux":
		return "linux"
	case "chrome os", "chromeos", "cros":
		return "chromeos"
	default:
		return ""
	}
}

func (r *DeviceRule) Collect(payload *models.FraudCheckRequest, derived Derived) []models.Signal {
	var signals []models.Signal

	ua := derived.UA
	platform := derived.Platform
	isMobileUA := derived.IsMobileUA
	tabletUA := isTabletUA(ua)

	maxWidth := payload.Viewport.Width
	if payload.Screen.Width > maxWidth {
		maxWidth = payload.Screen.Width
	}
	if isMobileUA && !tabletUA && maxWidth >= 1280 {
		signals = append(signals, models.NewSignal(
			"MOBILE_UA_DESKTOP_VIEWPORT", 30,
			"Mobile User-Agent with desktop-sized viewport/screen.",
		))
	}

	ch := payload.ClientHints
	if ch != nil && ch.Mobile != nil && *ch.Mobile != (isMobileUA && !tabletUA) {
		signals = append(signals, models.NewSignal(
			"UA_CLIENT_HINTS_MISMATCH", 20,
			"Client hints mobile flag is inconsistent with User-Agent.",
		))
	}

	var uaFamily, chFamily, navFamily string
	if ch != nil && ch.Platform != "" {
		uaFamily = platformFamilyFromUserAgent(ua)
		chFamily = platformFamilyFromClientHints(ch.Platform)
		if uaFamily != "" && chFamily != "" && uaFamily != chFamily {
			signals = append(signals, models.NewSignal(
				"UA_CH_PLATFORM_MISMATCH", 20,
				"Client hints platform is inconsistent with User-Agent platform.",
			))
		}

		navFamily = platformFamilyFromNavigator(platform)
		exempt := uaFamily == "android" && navFamily == "linux" && chFamily == "android"
		if navFamily != "" && chFamily != "" && !exempt && navFamily != chFamily {
			signals = append(signals, models.NewSignal(
				"NAV_CH_PLATFORM_MISMATCH", 15,
				"Client hints platform is inconsistent with navigator.platform.",
			))
		}
	}

	if exceedsScreen(payload.Viewport.Width, payload.Screen.Width, 120) {
		signals = append(signals, models.NewSignal(
			"VIEWPORT_EXCEEDS_SCREEN_WIDTH", 15,
			"Viewport width significantly exceeds screen width.",
		))
	}
	if exceedsScreen(payload.Viewport.Height, payload.Screen.Height, 160) {
		signals = append(signals, models.NewSignal(
			"VIEWPORT_EXCEEDS_SCREEN_HEIGHT", 12,
			"Viewport height significantly exceeds screen height.",
		))
	}
	if payload.Screen.AvailWidth != nil && exceedsScreen(payload.Viewport.Width, *payload.Screen.AvailWidth, 240) {
		signals = append(signals, models.NewSignal(
			"VIEWPORT_EXCEEDS_SCREEN_AVAIL_WIDTH", 8,
			"Viewport width significantly exceeds screen.availWidth.",
		))
	}
	if payload.Screen.AvailHeight != nil && exceedsScreen(payload.Viewport.Height, *payload.Screen.AvailHeight, 320) {
		signals = append(signals, models.NewSignal(
			"VIEWPORT_EXCEEDS_SCREEN_AVAIL_HEIGHT", 8,
			"Viewport height significantly exceeds screen.availHeight.",
		))
	}
	if invalidAvailableDimension(payload.Screen.AvailWidth, payload.Screen.Width) {
		signals = append(signals, models.NewSignal(
			"SCREEN_AVAIL_WIDTH_INVALID", 12,
			"screen.availWidth is larger than screen.width.",
		))
	}
	if invalidAvailableDimension(payload.Screen.AvailHeight, payload.Screen.Height) {
		signals = append(signals, models.NewSignal(
			"SCREEN_AVAIL_HEIGHT_INVALID", 12,
			"screen.availHeight is larger than screen.height.",
		))
	}

	if payload.Screen.PixelRatio != nil && *payload.Screen.PixelRatio > 5 {
		signals = append(signals, models.NewSignal(
			"UNUSUAL_PIXEL_RATIO", 10,
			"Reported device pixel ratio is unusually high.",
		))
	}

	maxTouch := 0
	if payload.Navigator.MaxTouchPoints != nil {
		maxTouch = *payload.Navigator.MaxTouchPoints
	}
	if isMobileUA && maxTouch == 0 {
		signals = append(signals, models.NewSignal(
			"MOBILE_UA_ZERO_TOUCH_POINTS", 15,
			"Mobile User-Agent reports zero touch points.",
		))
	}
	if !isMobileUA && maxTouch >= 10 {
		signals = append(signals, models.NewSignal(
			"DESKTOP_UA_HIGH_TOUCH_POINTS", 8,
			"Desktop User-Agent reports unusually high touch points.",
		))
	}

	if !isMobileUA && payload.Viewport.Width <= 420 && payload.Viewport.Height <= 420 {
		signals = append(signals, models.NewSignal(
			"TINY_VIEWPORT_DESKTOP", 6,
			"Desktop-like UA with an unusually small viewport.",
		))
	}

	if isAndroidUA(ua) && platform != "" && !anyContains(platform, androidPlatformMarkers) {
		signals = append(signals, models.NewSignal(
			"UA_PLATFORM_MISMATCH_ANDROID", 15,
			"UA claims Android but navigator.platform differs.",
		))
	}
	if isIOSUA(ua) && platform != "" && !anyContains(platform, iosPlatformMarkers) {
		signals = append(signals, models.NewSignal(
			"UA_PLATFORM_MISMATCH_IOS", 15,
			"UA claims iOS but navigator.platform differs.",
		))
	}
	if contains(ua, "windows") && platform != "" && !contains(platform, "win") {
		signals = append(signals, models.NewSignal(
			"UA_PLATFORM_MISMATCH_WINDOWS", 15,
			"UA claims Windows but navigator.platform differs.",
		))
	}
	if isDesktopMacUA(ua) && platform != "" && !contains(platform, "mac") {
		signals = append(signals, models.NewSignal(
			"UA_PLATFORM_MISMATCH_MAC", 15,
			"UA claims desktop macOS but navigator.platform differs.",
		))
	}
	if contains(ua, "linux") && !isAndroidUA(ua) && platform != "" &&
		!contains(platform, "linux") && !contains(platform, "x11") {
		signals = append(signals, models.NewSignal(
			"UA_PLATFORM_MISMATCH_LINUX", 15,
			"UA claims Linux but navigator.platform differs.",
		))
	}

	return signals
}
