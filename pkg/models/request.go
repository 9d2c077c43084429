// Package models holds the wire types shared by the rule modules, the
// scoring engine, and the HTTP surface.
package models

import "time"

// NavigatorSignals mirrors the subset of window.navigator the collector
// script reads.
type NavigatorSignals struct {
	UserAgent           string   `json:"user_agent" validate:"required,min=10,max=2048"`
	Language            string   `json:"language,omitempty" validate:"omitempty,max=32"`
	Languages           []string `json:"languages,omitempty" validate:"omitempty,max=20"`
	Platform            string   `json:"platform,omitempty" validate:"omitempty,max=128"`
	Webdriver           *bool    `json:"webdriver,omitempty"`
	HardwareConcurrency *int     `json:"hardware_concurrency,omitempty" validate:"omitempty,gte=1,lte=256"`
	DeviceMemory        *float64 `json:"device_memory,omitempty" validate:"omitempty,gte=0.25,lte=128"`
	MaxTouchPoints      *int     `json:"max_touch_points,omitempty" validate:"omitempty,gte=0,lte=64"`
	CookieEnabled       *bool    `json:"cookie_enabled,omitempty"`
	PluginsCount        *int     `json:"plugins_count,omitempty" validate:"omitempty,gte=0,lte=200"`
}

// ScreenSignals mirrors window.screen.
type ScreenSignals struct {
	Width       int      `json:"width" validate:"required,gte=1,lte=10000"`
	Height      int      `json:"height" validate:"required,gte=1,lte=10000"`
	AvailWidth  *int     `json:"avail_width,omitempty" validate:"omitempty,gte=1,lte=10000"`
	AvailHeight *int     `json:"avail_height,omitempty" validate:"omitempty,gte=1,lte=10000"`
	ColorDepth  *int     `json:"color_depth,omitempty" validate:"omitempty,gte=1,lte=64"`
	PixelRatio  *float64 `json:"pixel_ratio,omitempty" validate:"omitempty,gte=0.1,lte=10"`
}

// ViewportSignals mirrors window.innerWidth/innerHeight.
type ViewportSignals struct {
	Width  int `json:"width" validate:"required,gte=1,lte=10000"`
	Height int `json:"height" validate:"required,gte=1,lte=10000"`
}

// WebGLSignals mirrors the WEBGL_debug_renderer_info extension.
type WebGLSignals struct {
	Vendor   string `json:"vendor,omitempty" validate:"omitempty,max=256"`
	Renderer string `json:"renderer,omitempty" validate:"omitempty,max=512"`
}

// LocationSignals mirrors the client's best-effort idea of where it is.
type LocationSignals struct {
	CountryISO        string   `json:"country_iso,omitempty" validate:"omitempty,len=2,uppercase"`
	Timezone          string   `json:"timezone,omitempty" validate:"omitempty,max=128"`
	UTCOffsetMinutes  *int     `json:"utc_offset_minutes,omitempty" validate:"omitempty,gte=-840,lte=840"`
	Latitude          *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude         *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	AccuracyMeters    *float64 `json:"accuracy_meters,omitempty" validate:"omitempty,gte=0,lte=50000"`
}

// ClientHintsSignals mirrors navigator.userAgentData.
type ClientHintsSignals struct {
	Mobile   *bool    `json:"mobile,omitempty"`
	Platform string   `json:"platform,omitempty" validate:"omitempty,max=64"`
	Brands   []string `json:"brands,omitempty" validate:"omitempty,max=20"`
}

// BehaviorSignals mirrors passive interaction counters gathered client-side.
type BehaviorSignals struct {
	TimeOnPageMs    *int `json:"time_on_page_ms,omitempty" validate:"omitempty,gte=0,lte=3600000"`
	MaxScrollY      *int `json:"max_scroll_y,omitempty" validate:"omitempty,gte=0,lte=100000"`
	ScrollCount     *int `json:"scroll_count,omitempty" validate:"omitempty,gte=0,lte=100000"`
	DocumentHeight  *int `json:"document_height,omitempty" validate:"omitempty,gte=0,lte=100000"`
	KeydownCount    *int `json:"keydown_count,omitempty" validate:"omitempty,gte=0,lte=100000"`
	MouseMoveCount  *int `json:"mouse_move_count,omitempty" validate:"omitempty,gte=0,lte=1000000"`
	TouchCount      *int `json:"touch_count,omitempty" validate:"omitempty,gte=0,lte=100000"`
}

// FraudCheckRequest is the immutable browser telemetry snapshot evaluated by
// a single /fraud/check call. Unknown JSON fields are rejected by the HTTP
// binder, not by this type.
type FraudCheckRequest struct {
	EventID           string              `json:"event_id,omitempty" validate:"omitempty,max=128"`
	SessionID         string              `json:"session_id,omitempty" validate:"omitempty,max=128"`
	ClientReportedIP  string              `json:"client_reported_ip,omitempty" validate:"omitempty,max=64"`
	Navigator         NavigatorSignals    `json:"navigator" validate:"required"`
	Screen            ScreenSignals       `json:"screen" validate:"required"`
	Viewport          ViewportSignals     `json:"viewport" validate:"required"`
	WebGL             *WebGLSignals       `json:"webgl,omitempty"`
	Location          *LocationSignals    `json:"location,omitempty"`
	ClientHints       *ClientHintsSignals `json:"client_hints,omitempty"`
	Behavior          *BehaviorSignals    `json:"behavior,omitempty"`
	CollectedAt       *time.Time          `json:"collected_at,omitempty"`
}

// CaptchaVerifyRequest is the body of POST /fraud/captcha/verify.
type CaptchaVerifyRequest struct {
	ChallengeID  string `json:"challenge_id" validate:"required,min=16,max=256"`
	CaptchaToken string `json:"captcha_token" validate:"required,min=16,max=8192"`
}
