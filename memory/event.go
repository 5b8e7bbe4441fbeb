package memory

import "time"

// EventType tags which of the six compression strategies produced an
// event.
type EventType string

const (
	EventPreviousRoundToolCompression EventType = "previous_round_tool_compression"
	EventLargePayloadOffloadTail      EventType = "large_payload_offload_tail_protected"
	EventLargePayloadOffload          EventType = "large_payload_offload"
	EventPreviousRoundSummary         EventType = "previous_round_summary"
	EventCurrentRoundLargeMessage     EventType = "current_round_large_message"
	EventCurrentRoundToolCompression  EventType = "current_round_tool_compression"
)

// CompressionEvent records one compression action for observability and
// tests. The log is append-only.
type CompressionEvent struct {
	EventType               EventType
	Timestamp               time.Time
	CompressedMessageCount  int
	PreviousMessageID       string
	NextMessageID           string
	CompressedMessageID     string
	Metadata                map[string]any
}
