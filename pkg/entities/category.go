package entities

import (
	"fmt"
	"strings"
)

// CategoryKey partitions the ticket types.
type CategoryKey string

const (
	CategorySupport      CategoryKey = "support"
	CategoryFinanceiro   CategoryKey = "financeiro"
	CategoryModCreator   CategoryKey = "modcreator"
	CategoryModelCreator CategoryKey = "modelcreator"
)

// Categories is every category key, in panel order.
var Categories = []CategoryKey{
	CategorySupport,
	CategoryFinanceiro,
	CategoryModCreator,
	CategoryModelCreator,
}

var categoryDisplayNames = map[CategoryKey]string{
	CategorySupport:      "📩 Tickets - Suporte",
	CategoryFinanceiro:   "💰 Tickets - Financeiro",
	CategoryModCreator:   "🧩 Tickets - ModCreator",
	CategoryModelCreator: "🎭 Tickets - ModelCreator",
}

var categoryLabels = map[CategoryKey]string{
	CategorySupport:      "Suporte",
	CategoryFinanceiro:   "Financeiro",
	CategoryModCreator:   "ModCreator",
	CategoryModelCreator: "ModelCreator",
}

// ParseCategoryKey parses a category key.
func ParseCategoryKey(s string) (CategoryKey, error) {
	key := CategoryKey(strings.ToLower(strings.TrimSpace(s)))
	if !key.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return key, nil
}

// Valid reports whether the key is one of the known categories.
func (k CategoryKey) Valid() bool {
	_, ok := categoryDisplayNames[k]
	return ok
}

// DisplayName is the default name of the Discord category channel that holds tickets of this kind.
func (k CategoryKey) DisplayName() string {
	return categoryDisplayNames[k]
}

// Label is the human readable name of the category.
func (k CategoryKey) Label() string {
	if l, ok := categoryLabels[k]; ok {
		return l
	}
	return string(k)
}

// ChannelPrefix is the prefix used for ticket channel names. Support tickets use the Portuguese name.
func (k CategoryKey) ChannelPrefix() string {
	if k == CategorySupport {
		return "suporte"
	}
	return string(k)
}

// CategoryBinding binds a category key to a Discord category channel.
type CategoryBinding struct {
	// GuildID is the ID of the guild.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// Key is the category key.
	Key CategoryKey `json:"key" bson:"key"`

	// ContainerID is the ID of the Discord category channel.
	ContainerID string `json:"container_id" bson:"container_id"`

	// DisplayName is the name of the Discord category channel when it was bound.
	DisplayName string `json:"display_name" bson:"display_name"`
}
