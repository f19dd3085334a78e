package realtime

import (
	"net/url"

	"main/pkg/exception"

	"github.com/yanun0323/errors"
)

const syncPathPrefix = "/sync/ws"

// Endpoint derives the coordination endpoint address from the configured
// base address: the scheme is swapped to the persistent-connection scheme
// and the path /sync/ws/{platform}/{userId} is appended.
func Endpoint(base, platform, userID string) (string, error) {
	if base == "" || platform == "" || userID == "" {
		return "", exception.ErrInvalidArgument
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrap(err, "parse base address")
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", exception.ErrInvalidArgument
	}

	u.Path = syncPathPrefix + "/" + platform + "/" + userID
	u.RawPath = syncPathPrefix + "/" + url.PathEscape(platform) + "/" + url.PathEscape(userID)
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}
