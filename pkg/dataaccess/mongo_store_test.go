package dataaccess

import (
	"context"
	"testing"
	"time"

	"github.com/Jacobbrewer1/kira/pkg/custom"
	"github.com/Jacobbrewer1/kira/pkg/entities"
	"github.com/Jacobbrewer1/kira/pkg/logging"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ticketsNS = DefaultMongoDatabase + "." + collectionTickets

func TestMongoStore_CreateTicket(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	ticket := &entities.Ticket{
		GuildID:   "g1",
		UserID:    "u1",
		Category:  entities.CategorySupport,
		ChannelID: "ch1",
		CreatedAt: custom.Now(),
	}

	mt.Run("success", func(mt *mtest.T) {
		s := NewMongoStore(logging.Discard(), mt.Client, "")
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, s.CreateTicket(context.Background(), ticket))
	})

	mt.Run("duplicate", func(mt *mtest.T) {
		s := NewMongoStore(logging.Discard(), mt.Client, "")
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		require.ErrorIs(mt, s.CreateTicket(context.Background(), ticket), ErrTicketExists)
	})

	mt.Run("other error", func(mt *mtest.T) {
		s := NewMongoStore(logging.Discard(), mt.Client, "")
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
		}))

		err := s.CreateTicket(context.Background(), ticket)
		require.Error(mt, err)
		require.NotErrorIs(mt, err, ErrTicketExists)
	})
}

func TestMongoStore_FindTicketByChannel(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		s := NewMongoStore(logging.Discard(), mt.Client, "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ticketsNS, mtest.FirstBatch, bson.D{
			{Key: "guild_id", Value: "g1"},
			{Key: "user_id", Value: "u1"},
			{Key: "category_key", Value: "financeiro"},
			{Key: "channel_id", Value: "ch1"},
			{Key: "created_at", Value: "2024-05-01T10:00:00Z"},
		}))

		got, err := s.FindTicketByChannel(context.Background(), "g1", "ch1")
		require.NoError(mt, err)
		require.Equal(mt, "u1", got.UserID)
		require.Equal(mt, entities.CategoryFinanceiro, got.Category)
		require.True(mt, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).Equal(got.CreatedAt.Time()))
	})

	mt.Run("not found", func(mt *mtest.T) {
		s := NewMongoStore(logging.Discard(), mt.Client, "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ticketsNS, mtest.FirstBatch))

		_, err := s.FindTicketByChannel(context.Background(), "g1", "ch1")
		require.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestMongoStore_HasOpenTicket(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("open", func(mt *mtest.T) {
		s := NewMongoStore(logging.Discard(), mt.Client, "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ticketsNS, mtest.FirstBatch, bson.D{
			{Key: "n", Value: int32(1)},
		}))

		has, err := s.HasOpenTicket(context.Background(), "g1", "u1", entities.CategorySupport)
		require.NoError(mt, err)
		require.True(mt, has)
	})

	mt.Run("none", func(mt *mtest.T) {
		s := NewMongoStore(logging.Discard(), mt.Client, "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ticketsNS, mtest.FirstBatch))

		has, err := s.HasOpenTicket(context.Background(), "g1", "u1", entities.CategorySupport)
		require.NoError(mt, err)
		require.False(mt, has)
	})
}

func TestMongoStore_GetGuildConfig(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("never configured", func(mt *mtest.T) {
		s := NewMongoStore(logging.Discard(), mt.Client, "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, DefaultMongoDatabase+"."+collectionGuildConfigs, mtest.FirstBatch))

		cfg, err := s.GetGuildConfig(context.Background(), "g1")
		require.NoError(mt, err)
		require.Equal(mt, &entities.GuildConfig{GuildID: "g1"}, cfg)
	})

	mt.Run("configured", func(mt *mtest.T) {
		s := NewMongoStore(logging.Discard(), mt.Client, "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, DefaultMongoDatabase+"."+collectionGuildConfigs, mtest.FirstBatch, bson.D{
			{Key: "guild_id", Value: "g1"},
			{Key: "staff_role_id", Value: "staff"},
		}))

		cfg, err := s.GetGuildConfig(context.Background(), "g1")
		require.NoError(mt, err)
		require.Equal(mt, &entities.GuildConfig{GuildID: "g1", StaffRoleID: "staff"}, cfg)
	})
}

func TestMongoStore_Writes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upsert guild config", func(mt *mtest.T) {
		s := NewMongoStore(logging.Discard(), mt.Client, "")
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		staff := "staff"
		require.NoError(mt, s.UpsertGuildConfig(context.Background(), "g1", &entities.GuildConfigUpdate{StaffRoleID: &staff}))
	})

	mt.Run("bind category", func(mt *mtest.T) {
		s := NewMongoStore(logging.Discard(), mt.Client, "")
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, s.BindCategory(context.Background(), "g1", entities.CategorySupport, "c1", "Support"))
	})

	mt.Run("delete ticket", func(mt *mtest.T) {
		s := NewMongoStore(logging.Discard(), mt.Client, "")
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}))

		deleted, err := s.DeleteTicketByChannel(context.Background(), "g1", "ch1")
		require.NoError(mt, err)
		require.True(mt, deleted)
	})

	mt.Run("delete missing ticket", func(mt *mtest.T) {
		s := NewMongoStore(logging.Discard(), mt.Client, "")
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}))

		deleted, err := s.DeleteTicketByChannel(context.Background(), "g1", "ch1")
		require.NoError(mt, err)
		require.False(mt, deleted)
	})
}
