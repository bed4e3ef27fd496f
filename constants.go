package server

import "time"

const (
	writeWait         = 10 * time.Second
	defaultTickRate   = 30 // ticks per second; reflex gameplay wants more than the usual 15
	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval
)
