package httpapi

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gokaycavdar/fraudguard/pkg/rules"
)

// resolveRequestIP implements the trusted-header order: when
// trustForwardedIP is set, the first populated header among
// Cf-Connecting-IP, X-Forwarded-For (first hop), X-Real-IP wins; otherwise
// the transport peer address is used. gin.Context.ClientIP is avoided
// since it carries its own trusted-proxy heuristics independent of this
// resolver's explicit header order.
func resolveRequestIP(c *gin.Context, trustForwardedIP bool) string {
	if trustForwardedIP {
		if ip := rules.NormalizeIP(c.GetHeader("Cf-Connecting-IP")); ip != "" {
			return ip
		}
		if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
			first := strings.TrimSpace(strings.SplitN(forwarded, ",", 2)[0])
			if ip := rules.NormalizeIP(first); ip != "" {
				return ip
			}
		}
		if ip := rules.NormalizeIP(c.GetHeader("X-Real-IP")); ip != "" {
			return ip
		}
	}
	return rules.NormalizeIP(peerAddress(c.Request.RemoteAddr))
}

// peerAddress strips the ":port" suffix from a RemoteAddr of the form
// "host:port", tolerating bracketed IPv6 literals.
func peerAddress(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// requestHeaders copies every HTTP header into a flat map, the shape the
// rule package's Derived.Headers expects.
func requestHeaders(c *gin.Context) map[string]string {
	headers := make(map[string]string, len(c.Request.Header))
	for key := range c.Request.Header {
		headers[key] = c.Request.Header.Get(key)
	}
	return headers
}
