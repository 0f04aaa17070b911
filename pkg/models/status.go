package models

// ChannelStatus is the named connection status reported by a transport
// channel. Transports that speak in numeric status codes translate them at
// their boundary; numeric codes never appear outside the transport package.
type ChannelStatus string

const (
	StatusUninitialized   ChannelStatus = "uninitialized"
	StatusConnecting      ChannelStatus = "connecting"
	StatusOnline          ChannelStatus = "online"
	StatusExpiredToken    ChannelStatus = "expired_token"
	StatusFailedToConnect ChannelStatus = "failed_to_connect"
	StatusEnded           ChannelStatus = "ended"
)

// Terminal reports whether the status represents a credential problem that
// reconnecting cannot fix.
func (s ChannelStatus) Terminal() bool {
	return s == StatusExpiredToken
}

// Recoverable reports whether the status should be routed through the
// manager's recovery path.
func (s ChannelStatus) Recoverable() bool {
	return s == StatusFailedToConnect || s == StatusEnded
}
