package model

// Control actions understood by the worker. Anything else is ignored.
const (
	ActionStart = "start"
	ActionStop  = "stop"
)

// MessageTypeHeartbeat tags heartbeat records on the wire.
const MessageTypeHeartbeat = "heartbeat"

// ControlCommand is one inbound broadcast message from the monitor.
// Commands are consumed immediately and never stored.
type ControlCommand struct {
	SID    string `json:"sid"`
	Action string `json:"action"`
}

// NewHeartbeatRecord builds the wire payload for one liveness report:
// caller-supplied static metadata overlaid with the live sid, type and
// state. The record is ephemeral; it exists only for one send.
func NewHeartbeatRecord(sid string, state ServiceState, infos map[string]interface{}) map[string]interface{} {
	record := make(map[string]interface{}, len(infos)+3)
	for k, v := range infos {
		record[k] = v
	}
	record["sid"] = sid
	record["type"] = MessageTypeHeartbeat
	record["state"] = state.String()
	return record
}
