package dataaccess

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/kira/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/kira/pkg/entities"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetGuildConfig gets the configuration of a guild.
func (m *MongoStore) GetGuildConfig(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	defer monitoring.Observe(DriverMongo, guildDalName, "get_guild_config", collectionGuildConfigs)()

	cfg := new(entities.GuildConfig)
	err := m.collection(collectionGuildConfigs).FindOne(ctx, bson.M{"guild_id": guildID}).Decode(cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &entities.GuildConfig{GuildID: guildID}, nil
	} else if err != nil {
		monitoring.Failed(DriverMongo, guildDalName, "get_guild_config", collectionGuildConfigs)
		return nil, fmt.Errorf("error getting guild config: %w", err)
	}
	return cfg, nil
}

// UpsertGuildConfig sets only the supplied fields, so concurrent writes to different fields do not clobber each
// other.
func (m *MongoStore) UpsertGuildConfig(ctx context.Context, guildID string, update *entities.GuildConfigUpdate) error {
	defer monitoring.Observe(DriverMongo, guildDalName, "upsert_guild_config", collectionGuildConfigs)()

	set := bson.M{}
	if update != nil {
		if update.PanelChannelID != nil {
			set["panel_channel_id"] = *update.PanelChannelID
		}
		if update.LogChannelID != nil {
			set["log_channel_id"] = *update.LogChannelID
		}
		if update.StaffRoleID != nil {
			set["staff_role_id"] = *update.StaffRoleID
		}
	}

	doc := bson.M{"$setOnInsert": bson.M{"guild_id": guildID}}
	if len(set) > 0 {
		doc["$set"] = set
	}

	opts := options.Update().SetUpsert(true)
	if _, err := m.collection(collectionGuildConfigs).UpdateOne(ctx, bson.M{"guild_id": guildID}, doc, opts); err != nil {
		monitoring.Failed(DriverMongo, guildDalName, "upsert_guild_config", collectionGuildConfigs)
		return fmt.Errorf("error upserting guild config: %w", err)
	}
	return nil
}

// BindCategory binds a category key to a container.
func (m *MongoStore) BindCategory(ctx context.Context, guildID string, key entities.CategoryKey, containerID, name string) error {
	defer monitoring.Observe(DriverMongo, guildDalName, "bind_category", collectionCategoryBindings)()

	filter := bson.M{"guild_id": guildID, "key": key}
	doc := bson.M{"$set": bson.M{
		"container_id": containerID,
		"display_name": name,
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := m.collection(collectionCategoryBindings).UpdateOne(ctx, filter, doc, opts); err != nil {
		monitoring.Failed(DriverMongo, guildDalName, "bind_category", collectionCategoryBindings)
		return fmt.Errorf("error binding category: %w", err)
	}
	return nil
}

// LookupCategory gets the binding for a category key.
func (m *MongoStore) LookupCategory(ctx context.Context, guildID string, key entities.CategoryKey) (*entities.CategoryBinding, error) {
	defer monitoring.Observe(DriverMongo, guildDalName, "lookup_category", collectionCategoryBindings)()

	binding := new(entities.CategoryBinding)
	err := m.collection(collectionCategoryBindings).FindOne(ctx, bson.M{"guild_id": guildID, "key": key}).Decode(binding)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		monitoring.Failed(DriverMongo, guildDalName, "lookup_category", collectionCategoryBindings)
		return nil, fmt.Errorf("error getting category binding: %w", err)
	}
	return binding, nil
}
