package vybe

// State is the lifecycle position of a Client.
type State int32

// Session states.
const (
	StateDisconnected State = iota
	StateConnecting
	StateConfiguring
	StateStreaming
	StateClosing
	StateReconnecting
)

var stateNames = []string{
	"disconnected",
	"connecting",
	"configuring",
	"streaming",
	"closing",
	"reconnecting",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
