package rules

import "github.com/gokaycavdar/fraudguard/pkg/models"

// softwareRendererMarkers lists WebGL renderer substrings that indicate a
// software or emulated GPU rather than real hardware.
var softwareRendererMarkers = []string{"swiftshader", "llvmpipe", "software"}

// SystemRule flags implausible hardware self-reports: starved core
// counts, starved memory on a desktop UA, zero plugins on a Chromium
// desktop browser, and software-rendered WebGL.
type SystemRule struct{}

func NewSystemRule() *SystemRule {
	return &SystemRule{}
}

func (r *SystemRule) Name() string {
	return "SystemFingerprint"
}

func (r *SystemRule) Collect(payload *models.FraudCheckRequest, derived Derived) []models.Signal {
	var signals []models.Signal
	nav := payload.Navigator

	if nav.HardwareConcurrency != nil && *nav.HardwareConcurrency <= 1 {
		signals = append(signals, models.NewSignal(
			"LOW_CPU_CORE_COUNT", 8,
			"Very low CPU core count for modern browsers.",
		))
	}

	if derived.IsDesktopUA && nav.DeviceMemory != nil && *nav.DeviceMemory <= 0.5 {
		signals = append(signals, models.NewSignal(
			"LOW_DEVICE_MEMORY_DESKTOP", 10,
			"Desktop-like browser with very low device memory.",
		))
	}

	if derived.IsDesktopUA && nav.PluginsCount != nil && *nav.PluginsCount == 0 && isChromiumUA(derived.UA) {
		signals = append(signals, models.NewSignal(
			"ZERO_PLUGINS_DESKTOP", 12,
			"Desktop browser reports zero plugins.",
		))
	}

	if payload.WebGL != nil && payload.WebGL.Renderer != "" {
		renderer := normalizeText(payload.WebGL.Renderer)
		if anyContains(renderer, softwareRendererMarkers) {
			signals = append(signals, models.NewSignal(
				"SOFTWARE_WEBGL_RENDERER", 25,
				"WebGL renderer indicates software rendering/emulation.",
			))
		}
	}

	return signals
}
