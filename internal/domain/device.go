package domain

import "time"

// Platform represents the push platform of a registered device.
type Platform string

// List of possible device platforms
const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

// List of allowed platforms
var allowedPlatforms = [...]Platform{
	PlatformIOS, PlatformAndroid, PlatformWeb,
}

// Valid checks if the Platform is valid
func (p Platform) Valid() bool {
	for _, v := range allowedPlatforms {
		if p == v {
			return true
		}
	}
	return false
}

// DeviceRegistration binds an identity to its push target.
// At most one active registration exists per identity; re-registering replaces it.
type DeviceRegistration struct {
	IdentityID   string
	PushToken    string
	Platform     Platform
	RegisteredAt time.Time
}
