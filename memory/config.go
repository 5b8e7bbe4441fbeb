package memory

// PromptConfig carries optional overrides for the four compression
// prompts. A blank field falls back to the package default.
type PromptConfig struct {
	PreviousRoundToolPrompt    string
	PreviousRoundSummaryPrompt string
	CurrentRoundLargePrompt    string
	CurrentRoundCompressPrompt string
}

// Config is the compression-tuning envelope for AutoContextMemory.
type Config struct {
	// LargePayloadThreshold (chars) above which a single message's text
	// is considered large enough to offload.
	LargePayloadThreshold int
	// MaxToken is the token budget; compression triggers once the
	// estimated token count reaches MaxToken * TokenRatio.
	MaxToken int
	// TokenRatio (0–1) scales MaxToken into the actual trigger threshold.
	TokenRatio float64
	// OffloadSinglePreview (chars) is how much of an offloaded message's
	// original text survives as a preview in its replacement.
	OffloadSinglePreview int
	// MsgThreshold is the working-store size that triggers compression.
	MsgThreshold int
	// LastKeep is how many trailing messages tail-protecting strategies
	// never touch.
	LastKeep int
	// MinConsecutiveToolMessages (K) is the minimum run length S1 looks
	// for; a qualifying run must have strictly more than this many
	// messages.
	MinConsecutiveToolMessages int
	// CurrentRoundCompressionRatio (R) sets S6's target character budget
	// as a fraction of the original run's character count.
	CurrentRoundCompressionRatio float64

	Prompts PromptConfig
}

// DefaultConfig returns the compression envelope's default values.
func DefaultConfig() Config {
	return Config{
		LargePayloadThreshold:        5120,
		MaxToken:                     128 * 1024,
		TokenRatio:                   0.75,
		OffloadSinglePreview:         200,
		MsgThreshold:                 100,
		LastKeep:                     50,
		MinConsecutiveToolMessages:   6,
		CurrentRoundCompressionRatio: 0.3,
	}
}

// ConfigBuilder builds a Config starting from DefaultConfig, overriding
// only the fields the caller sets.
type ConfigBuilder struct {
	cfg Config
}

// NewConfigBuilder starts from DefaultConfig.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: DefaultConfig()}
}

func (b *ConfigBuilder) LargePayloadThreshold(v int) *ConfigBuilder {
	b.cfg.LargePayloadThreshold = v
	return b
}

func (b *ConfigBuilder) MaxToken(v int) *ConfigBuilder {
	b.cfg.MaxToken = v
	return b
}

func (b *ConfigBuilder) TokenRatio(v float64) *ConfigBuilder {
	b.cfg.TokenRatio = v
	return b
}

func (b *ConfigBuilder) OffloadSinglePreview(v int) *ConfigBuilder {
	b.cfg.OffloadSinglePreview = v
	return b
}

func (b *ConfigBuilder) MsgThreshold(v int) *ConfigBuilder {
	b.cfg.MsgThreshold = v
	return b
}

func (b *ConfigBuilder) LastKeep(v int) *ConfigBuilder {
	b.cfg.LastKeep = v
	return b
}

func (b *ConfigBuilder) MinConsecutiveToolMessages(v int) *ConfigBuilder {
	b.cfg.MinConsecutiveToolMessages = v
	return b
}

func (b *ConfigBuilder) CurrentRoundCompressionRatio(v float64) *ConfigBuilder {
	b.cfg.CurrentRoundCompressionRatio = v
	return b
}

func (b *ConfigBuilder) Prompts(p PromptConfig) *ConfigBuilder {
	b.cfg.Prompts = p
	return b
}

// Build returns the finished Config.
func (b *ConfigBuilder) Build() Config {
	return b.cfg
}
