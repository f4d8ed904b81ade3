package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// AgentEnv maps go-agents config fields to environment variable names so
// each agent can be overridden independently.
type AgentEnv struct {
	Name         string
	ProviderName string
	BaseURL      string
	Token        string
	Deployment   string
	APIVersion   string
	AuthType     string
	ModelName    string
}

var visionAgentEnv = &AgentEnv{
	Name:         "KYC_VISION_AGENT_NAME",
	ProviderName: "KYC_VISION_AGENT_PROVIDER_NAME",
	BaseURL:      "KYC_VISION_AGENT_BASE_URL",
	Token:        "KYC_VISION_AGENT_TOKEN",
	Deployment:   "KYC_VISION_AGENT_DEPLOYMENT",
	APIVersion:   "KYC_VISION_AGENT_API_VERSION",
	AuthType:     "KYC_VISION_AGENT_AUTH_TYPE",
	ModelName:    "KYC_VISION_AGENT_MODEL_NAME",
}

var chatAgentEnv = &AgentEnv{
	Name:         "KYC_CHAT_AGENT_NAME",
	ProviderName: "KYC_CHAT_AGENT_PROVIDER_NAME",
	BaseURL:      "KYC_CHAT_AGENT_BASE_URL",
	Token:        "KYC_CHAT_AGENT_TOKEN",
	Deployment:   "KYC_CHAT_AGENT_DEPLOYMENT",
	APIVersion:   "KYC_CHAT_AGENT_API_VERSION",
	AuthType:     "KYC_CHAT_AGENT_AUTH_TYPE",
	ModelName:    "KYC_CHAT_AGENT_MODEL_NAME",
}

// AgentConfig is the TOML-facing definition of a model agent. The go-agents
// config structs carry JSON tags only, so the snake_case keys are declared
// here and resolved into a gaconfig.AgentConfig during Finalize.
type AgentConfig struct {
	Name     string         `toml:"name"`
	Provider ProviderConfig `toml:"provider"`
	Model    ModelConfig    `toml:"model"`

	resolved *gaconfig.AgentConfig
}

// ProviderConfig holds provider settings for an agent.
type ProviderConfig struct {
	Name    string         `toml:"name"`
	BaseURL string         `toml:"base_url"`
	Options map[string]any `toml:"options"`
}

// ModelConfig holds model settings for an agent.
type ModelConfig struct {
	Name string `toml:"name"`
}

// Agent returns the finalized go-agents configuration. Only valid after
// Finalize has run.
func (c *AgentConfig) Agent() *gaconfig.AgentConfig {
	return c.resolved
}

// Merge overwrites non-zero fields from overlay.
func (c *AgentConfig) Merge(overlay *AgentConfig) {
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.Provider.Name != "" {
		c.Provider.Name = overlay.Provider.Name
	}
	if overlay.Provider.BaseURL != "" {
		c.Provider.BaseURL = overlay.Provider.BaseURL
	}
	for k, v := range overlay.Provider.Options {
		if c.Provider.Options == nil {
			c.Provider.Options = make(map[string]any)
		}
		c.Provider.Options[k] = v
	}
	if overlay.Model.Name != "" {
		c.Model.Name = overlay.Model.Name
	}
}

// AgentsConfig holds the two model agents the pipeline drives: a
// vision-capable agent for text extraction and a chat agent for
// cross-document validation.
type AgentsConfig struct {
	Vision AgentConfig `toml:"vision"`
	Chat   AgentConfig `toml:"chat"`
}

// Finalize applies the three-phase finalize pattern to both agents:
// defaults from go-agents DefaultAgentConfig, environment variable
// overrides, and validation.
func (c *AgentsConfig) Finalize() error {
	if err := c.Vision.finalize(visionAgentEnv, "kyc-vision"); err != nil {
		return fmt.Errorf("vision: %w", err)
	}
	if err := c.Chat.finalize(chatAgentEnv, "kyc-chat"); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay for both agents.
func (c *AgentsConfig) Merge(overlay *AgentsConfig) {
	c.Vision.Merge(&overlay.Vision)
	c.Chat.Merge(&overlay.Chat)
}

func (c *AgentConfig) finalize(env *AgentEnv, fallbackName string) error {
	if c.Name == "" {
		c.Name = fallbackName
	}

	agent := c.toAgent()
	loadAgentDefaults(agent)
	loadAgentEnv(agent, env)

	if err := validateAgent(agent); err != nil {
		return err
	}

	c.resolved = agent
	return nil
}

// toAgent lifts the TOML fields into a go-agents config. Empty sections stay
// nil so DefaultAgentConfig can fill them whole.
func (c *AgentConfig) toAgent() *gaconfig.AgentConfig {
	agent := &gaconfig.AgentConfig{Name: c.Name}

	if c.Provider.Name != "" || c.Provider.BaseURL != "" || len(c.Provider.Options) > 0 {
		agent.Provider = &gaconfig.ProviderConfig{
			Name:    c.Provider.Name,
			BaseURL: c.Provider.BaseURL,
			Options: c.Provider.Options,
		}
	}
	if c.Model.Name != "" {
		agent.Model = &gaconfig.ModelConfig{Name: c.Model.Name}
	}

	return agent
}

func loadAgentDefaults(c *gaconfig.AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults
}

func loadAgentEnv(c *gaconfig.AgentConfig, env *AgentEnv) {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}
	if v := os.Getenv(env.Name); v != "" {
		c.Name = v
	}
	if v := os.Getenv(env.ProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(env.BaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(env.ModelName); v != "" {
		c.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(env.Token, "token")
	setOption(env.Deployment, "deployment")
	setOption(env.APIVersion, "api_version")
	setOption(env.AuthType, "auth_type")
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider == nil {
		return fmt.Errorf("provider required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}
