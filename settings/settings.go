package settings

import (
	"os"
	"path"
	"time"
)

// Defaults resolve as explicit argument > configured value > constant below,
// so every fallback lives in this package.
const (
	ConfigFile    = ".remirror.yml"
	ConfigVersion = "1"

	DefaultBranch = "main"
	DefaultRemote = "origin"

	StateDir   = ".remirror"
	SyncScript = "sync.sh"
	LoopScript = "loop.sh"
	PromptFile = "prompt.md"

	LoopDelay = 5 * time.Second

	agentEnvKey         = "REMIRROR_AGENT"
	defaultAgentCommand = "claude"

	AgentProbeTimeout   = 60 * time.Second
	AgentProbePrompt    = "Reply with a short greeting."
	MinAgentResponseLen = 10
)

func AgentCommand() string {
	if agent := os.Getenv(agentEnvKey); agent != "" {
		return agent
	}

	return defaultAgentCommand
}

func ConfigPath(dir string) string {
	return path.Join(dir, ConfigFile)
}

func SyncScriptPath(dir string) string {
	return path.Join(dir, StateDir, SyncScript)
}

func LoopScriptPath(dir string) string {
	return path.Join(dir, StateDir, LoopScript)
}

func PromptPath(dir string) string {
	return path.Join(dir, StateDir, PromptFile)
}
