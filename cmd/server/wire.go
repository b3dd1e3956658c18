//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"chat-relay-server/internal/chat"
	"chat-relay-server/internal/config"
	"chat-relay-server/internal/handler"
	"chat-relay-server/internal/repository/mongo"
	"chat-relay-server/internal/repository/postgres"
	"chat-relay-server/internal/repository/redis"
	"chat-relay-server/internal/service"
)

// InitializeApp creates a new application.
func InitializeApp() (*App, func(), error) {
	wire.Build(
		config.Load,
		// Database & Context Providers
		wire.NewSet(
			provideContext,
			providePostgresDB,
			provideMongoDB,
			provideRedisClient,
			provideTimeLocation,
			provideSessionTTL,
		),
		// Repository Providers
		wire.NewSet(
			postgres.NewUserRepository,
			wire.Bind(new(service.IUserRepository), new(*postgres.UserRepository)),

			postgres.NewGroupRepository,
			wire.Bind(new(service.IGroupRepository), new(*postgres.GroupRepository)),

			mongo.NewMessageRepository,
			wire.Bind(new(service.IMessageRepository), new(*mongo.MessageRepository)),

			redis.NewSessionStore,
			wire.Bind(new(service.ISessionStore), new(*redis.SessionStore)),
		),
		// Service Providers
		wire.NewSet(
			service.NewAuthService,
			wire.Bind(new(service.IAuthService), new(*service.AuthService)),

			service.NewChatService,
			wire.Bind(new(service.IChatService), new(*service.ChatService)),

			service.NewGroupService,
			wire.Bind(new(service.IGroupService), new(*service.GroupService)),
		),
		// Realtime core
		wire.NewSet(
			chat.NewRegistry,
			chat.NewDispatcher,
		),
		handler.New,
		// App Provider
		wire.NewSet(
			wire.Struct(new(App), "*"),
		),
	)
	return nil, nil, nil
}
