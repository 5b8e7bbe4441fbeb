package telemetry

// Span and attribute name constants shared across instrumented packages.
const (
	AttrAgentName    = "agent.name"
	AttrHubName      = "hub.name"
	AttrStrategy     = "memory.compression.strategy"
	AttrCauseCount   = "pipeline.composite_error.cause_count"
	AttrParticipants = "hub.participant_count"

	SpanPipelineSequential = "pipeline.sequential"
	SpanPipelineFanout     = "pipeline.fanout"
	SpanHubBroadcast       = "msghub.broadcast"
	SpanMemoryCompress     = "memory.compress"

	DefaultServiceName = "agentscope-core"
)
