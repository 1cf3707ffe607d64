package constants

// Environment variables read by jmp. Each overrides the matching config key.
const (
	EnvConfig  = "JMP_CONFIG"
	EnvPad     = "JMP_PAD"
	EnvBackend = "JMP_BACKEND"
	EnvColor   = "JMP_COLOR"
)
