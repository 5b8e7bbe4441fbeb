// Package config loads the memory configuration envelope from a YAML
// file, after loading a .env file into the process environment. Its presence is a convenience for a
// deployment that wants file-driven config; the core's own public API
// never requires it — memory.New(cfg memory.Config, ...) always accepts
// a plain struct built however the caller likes.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/agentscope-go/core/memory"
)

// Envelope is the on-disk shape of the memory configuration file.
type Envelope struct {
	LargePayloadThreshold        int     `yaml:"large_payload_threshold"`
	MaxToken                     int     `yaml:"max_token"`
	TokenRatio                   float64 `yaml:"token_ratio"`
	OffloadSinglePreview         int     `yaml:"offload_single_preview"`
	MsgThreshold                 int     `yaml:"msg_threshold"`
	LastKeep                     int     `yaml:"last_keep"`
	MinConsecutiveToolMessages   int     `yaml:"min_consecutive_tool_messages"`
	CurrentRoundCompressionRatio float64 `yaml:"current_round_compression_ratio"`

	Prompts struct {
		PreviousRoundTool    string `yaml:"previous_round_tool"`
		PreviousRoundSummary string `yaml:"previous_round_summary"`
		CurrentRoundLarge    string `yaml:"current_round_large"`
		CurrentRoundCompress string `yaml:"current_round_compress"`
	} `yaml:"prompts"`
}

// LoadDotEnv loads environment variables from a .env file if present,
// without overwriting variables already set in the process environment.
// Idempotent and safe to call multiple times.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Load first loads the .env file in the current working directory, if
// any, into the process environment (see LoadDotEnv), then reads the YAML
// file at path and merges it onto memory.DefaultConfig: a zero value in
// the file for a numeric field means "unset", so a config file only needs
// to name the fields it overrides. No Config field is read from the
// environment.
func Load(path string) (memory.Config, error) {
	if err := LoadDotEnv(""); err != nil {
		return memory.Config{}, fmt.Errorf("config: load .env overlay: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return memory.Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var env Envelope
	if err := yaml.Unmarshal(data, &env); err != nil {
		return memory.Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return applyEnvelope(memory.DefaultConfig(), env), nil
}

func applyEnvelope(cfg memory.Config, env Envelope) memory.Config {
	b := memory.NewConfigBuilder()
	if env.LargePayloadThreshold != 0 {
		b.LargePayloadThreshold(env.LargePayloadThreshold)
	} else {
		b.LargePayloadThreshold(cfg.LargePayloadThreshold)
	}
	if env.MaxToken != 0 {
		b.MaxToken(env.MaxToken)
	} else {
		b.MaxToken(cfg.MaxToken)
	}
	if env.TokenRatio != 0 {
		b.TokenRatio(env.TokenRatio)
	} else {
		b.TokenRatio(cfg.TokenRatio)
	}
	if env.OffloadSinglePreview != 0 {
		b.OffloadSinglePreview(env.OffloadSinglePreview)
	} else {
		b.OffloadSinglePreview(cfg.OffloadSinglePreview)
	}
	if env.MsgThreshold != 0 {
		b.MsgThreshold(env.MsgThreshold)
	} else {
		b.MsgThreshold(cfg.MsgThreshold)
	}
	if env.LastKeep != 0 {
		b.LastKeep(env.LastKeep)
	} else {
		b.LastKeep(cfg.LastKeep)
	}
	if env.MinConsecutiveToolMessages != 0 {
		b.MinConsecutiveToolMessages(env.MinConsecutiveToolMessages)
	} else {
		b.MinConsecutiveToolMessages(cfg.MinConsecutiveToolMessages)
	}
	if env.CurrentRoundCompressionRatio != 0 {
		b.CurrentRoundCompressionRatio(env.CurrentRoundCompressionRatio)
	} else {
		b.CurrentRoundCompressionRatio(cfg.CurrentRoundCompressionRatio)
	}

	b.Prompts(memory.PromptConfig{
		PreviousRoundToolPrompt:    env.Prompts.PreviousRoundTool,
		PreviousRoundSummaryPrompt: env.Prompts.PreviousRoundSummary,
		CurrentRoundLargePrompt:    env.Prompts.CurrentRoundLarge,
		CurrentRoundCompressPrompt: env.Prompts.CurrentRoundCompress,
	})

	return b.Build()
}
