package entities

// GuildConfig is the configuration for a guild. An empty ID means the setting has not been configured.
type GuildConfig struct {
	// GuildID is the ID of the guild.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// PanelChannelID is the ID of the channel the ticket panel is posted in.
	PanelChannelID string `json:"panel_channel_id" bson:"panel_channel_id"`

	// LogChannelID is the ID of the channel that audit messages and transcripts are sent to.
	LogChannelID string `json:"log_channel_id" bson:"log_channel_id"`

	// StaffRoleID is the ID of the role that handles tickets.
	StaffRoleID string `json:"staff_role_id" bson:"staff_role_id"`
}

// GuildConfigUpdate is a partial update of a guild configuration. Nil fields keep their stored value.
type GuildConfigUpdate struct {
	PanelChannelID *string
	LogChannelID   *string
	StaffRoleID    *string
}

// IsEmpty reports whether the update does not change anything.
func (u *GuildConfigUpdate) IsEmpty() bool {
	return u == nil || (u.PanelChannelID == nil && u.LogChannelID == nil && u.StaffRoleID == nil)
}

// Apply applies the update to the configuration.
func (u *GuildConfigUpdate) Apply(cfg *GuildConfig) {
	if u == nil || cfg == nil {
		return
	}
	if u.PanelChannelID != nil {
		cfg.PanelChannelID = *u.PanelChannelID
	}
	if u.LogChannelID != nil {
		cfg.LogChannelID = *u.LogChannelID
	}
	if u.StaffRoleID != nil {
		cfg.StaffRoleID = *u.StaffRoleID
	}
}
