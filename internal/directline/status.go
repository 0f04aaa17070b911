package directline

import "github.com/haasonsaas/agentline/pkg/models"

// connectionCode is the numeric connection status used by Direct Line SDKs.
// The codes never leave this package; the session translates them to
// models.ChannelStatus at the boundary.
type connectionCode int

const (
	codeUninitialized connectionCode = iota
	codeConnecting
	codeOnline
	codeExpiredToken
	codeFailedToConnect
	codeEnded
)

func (c connectionCode) channelStatus() models.ChannelStatus {
	switch c {
	case codeConnecting:
		return models.StatusConnecting
	case codeOnline:
		return models.StatusOnline
	case codeExpiredToken:
		return models.StatusExpiredToken
	case codeFailedToConnect:
		return models.StatusFailedToConnect
	case codeEnded:
		return models.StatusEnded
	default:
		return models.StatusUninitialized
	}
}
