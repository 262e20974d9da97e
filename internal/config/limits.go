package config

const (
	// MaxChatNameLength is the maximum length for chat names.
	// Limited to 255 so names fit a VARCHAR(255) column on the postgres driver.
	MaxChatNameLength = 255

	// MaxPromptLength is the maximum length of a single prompt, in characters (runes).
	MaxPromptLength = 32 << 10
)
