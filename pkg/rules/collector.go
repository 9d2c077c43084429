package rules

import "github.com/gokaycavdar/fraudguard/pkg/models"

// Collector runs every stateless rule module over a payload in a fixed
// order and concatenates their signals. Stateful signal producers (rate
// limiter, fingerprint velocity, behavior similarity) live in pkg/counters
// and are invoked by the engine directly, not through this collector.
type Collector struct {
	modules []Rule
	geo     *GeoRule
}

// NewCollector builds the fixed-order stateless rule pack used by every
// check: automation, device, locale, headers, timestamp, system, ip,
// behavior-consistency. Geo is kept separate since it additionally
// requires a resolved IpGeoResult that is not known until after the
// stateless pack runs.
func NewCollector() *Collector {
	return &Collector{
		modules: []Rule{
			NewAutomationRule(),
			NewDeviceRule(),
			NewLocaleRule(),
			NewHeadersRule(),
			NewTimestampRule(),
			NewSystemRule(),
			NewIPConsistencyRule(),
			NewBehaviorRule(),
		},
		geo: NewGeoRule(),
	}
}

// CollectStateless runs the fixed-order stateless rule pack.
func (c *Collector) CollectStateless(payload *models.FraudCheckRequest, derived Derived) []models.Signal {
	var signals []models.Signal
	for _, module := range c.modules {
		signals = append(signals, module.Collect(payload, derived)...)
	}
	return signals
}

// CollectGeo runs the geo-consistency module, which is only meaningful
// once derived.IPGeo has been resolved.
func (c *Collector) CollectGeo(payload *models.FraudCheckRequest, derived Derived) []models.Signal {
	return c.geo.Collect(payload, derived)
}
