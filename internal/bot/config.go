package bot

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Chat that owns the vocabulary; updates from other chats are ignored
	ChatID int64
	// Long polling timeout in seconds
	PollTimeout int
	// Inline button labels longer than this are cut
	MaxButtonLength int
	// Number of recent sessions shown by /stats
	RecentSessions int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig(chatID int64) *BotConfig {
	return &BotConfig{
		ChatID:          chatID,
		PollTimeout:     60,
		MaxButtonLength: 48,
		RecentSessions:  5,
	}
}
