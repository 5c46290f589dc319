package models

import "time"

// ClientStatus is keyed by a caller-supplied id. IsOnline is a stored flag;
// whether a client counts as online is decided at read time against the
// presence window (see services.BoardService.OnlineClients).
type ClientStatus struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	LastSeen   time.Time `json:"last_seen"`
	IsOnline   bool      `json:"is_online"`
	IPAddress  *string   `json:"ip_address"`
	DeviceInfo *string   `json:"device_info"`
}

// Online reports whether the client counts as online right now: the stored
// flag is set and the client was seen within the presence window.
func (c *ClientStatus) Online(now time.Time, window time.Duration) bool {
	return c.IsOnline && now.Sub(c.LastSeen) < window
}
