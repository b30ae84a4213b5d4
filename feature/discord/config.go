package discord

// Config holds configuration for the Discord gateway.
type Config struct {
	// Token is the bot token. An empty token disables the gateway, leaving
	// only the HTTP surface active.
	Token string `mapstructure:"token" default:""`
	// ChannelID is the shared channel the upstream Wordle bot posts
	// announcements in. Live ingestion and history rescans read this channel.
	ChannelID string `mapstructure:"channel_id" default:""`
	// WordleBotUserID is the author id of the official Wordle bot. Messages
	// from any other author are ignored before they reach the parser.
	WordleBotUserID string `mapstructure:"wordle_bot_user_id" default:""`
	// GuildID optionally scopes slash-command registration to one guild,
	// which makes commands available immediately instead of after global
	// propagation.
	GuildID string `mapstructure:"guild_id" default:""`
}

// IsEnabled reports whether the gateway has enough configuration to run.
func (c Config) IsEnabled() bool {
	return c.Token != "" && c.ChannelID != ""
}
