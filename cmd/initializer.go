package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	firebase "firebase.google.com/go"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"google.golang.org/api/option"

	"collabBack/internal/config"
	"collabBack/internal/handlers"
	"collabBack/internal/identity"
	"collabBack/internal/marketplace"
	"collabBack/internal/marketplace/media"
	"collabBack/internal/marketplace/notify"
	"collabBack/internal/marketplace/repo"
	"collabBack/internal/repositories"
	"collabBack/internal/services"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger

	cfg      config.Config
	tokens   *identity.Manager
	deps     *marketplace.Deps
	amqpConn *amqp.Connection

	userHandler    *handlers.UserHandler
	profileHandler *handlers.ProfileHandler
	chatHandler    *handlers.ChatHandler
	messageHandler *handlers.MessageHandler
	fcmHandler     *handlers.FCMHandler
}

// moduleLogger adapts the application loggers to the marketplace Logger.
type moduleLogger struct {
	infoLog  *log.Logger
	errorLog *log.Logger
}

func (l moduleLogger) Infof(format string, args ...interface{}) {
	l.infoLog.Output(2, fmt.Sprintf(format, args...))
}

func (l moduleLogger) Errorf(format string, args ...interface{}) {
	l.errorLog.Output(2, fmt.Sprintf(format, args...))
}

func initializeApp(ctx context.Context, cfg config.Config, db *sql.DB, dialect repo.Dialect, rdb *redis.Client, errorLog, infoLog *log.Logger) (*application, error) {
	app := &application{errorLog: errorLog, infoLog: infoLog, cfg: cfg}

	tokens, err := identity.NewManager(cfg.JWT.Secret, cfg.TokenTTL())
	if err != nil {
		return nil, err
	}
	app.tokens = tokens

	// Repositories
	userRepo := &repositories.UserRepository{DB: db, Dialect: dialect}
	profileRepo := &repositories.ProfileRepository{DB: db, Dialect: dialect}
	conversationRepo := &repositories.ConversationRepository{DB: db, Dialect: dialect}
	messageRepo := &repositories.MessageRepository{DB: db, Dialect: dialect}
	deviceRepo := &repositories.DeviceRepository{DB: db, Dialect: dialect}

	// Services
	userService := &services.UserService{UserRepo: userRepo, Tokens: tokens}
	profileService := &services.ProfileService{ProfileRepo: profileRepo}
	deviceService := &services.DeviceService{DeviceRepo: deviceRepo}

	moduleCfg, err := marketplace.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := moduleLogger{infoLog: infoLog, errorLog: errorLog}
	deps := &marketplace.Deps{
		DB:        db,
		Dialect:   dialect,
		RDB:       rdb,
		Logger:    logger,
		Config:    moduleCfg,
		Resolver:  tokens,
		Directory: profileService,
	}

	if cfg.Firebase.CredentialsFile != "" {
		fbApp, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
		if err != nil {
			return nil, fmt.Errorf("init firebase: %w", err)
		}
		client, err := fbApp.Messaging(ctx)
		if err != nil {
			return nil, fmt.Errorf("init firebase messaging: %w", err)
		}
		deps.Sinks = append(deps.Sinks, notify.NewFCMSink(client, deviceRepo))
		infoLog.Println("push notifications enabled")
	}

	if cfg.AMQP.URL != "" {
		conn, err := amqp.Dial(cfg.AMQP.URL)
		if err != nil {
			return nil, fmt.Errorf("dial amqp: %w", err)
		}
		sink, err := notify.NewAMQPSink(conn, moduleCfg.EventExchange)
		if err != nil {
			conn.Close()
			return nil, err
		}
		app.amqpConn = conn
		deps.Sinks = append(deps.Sinks, sink)
		infoLog.Printf("publishing events to exchange %s", moduleCfg.EventExchange)
	}

	if cfg.S3.Bucket != "" {
		uploader, err := media.NewUploader(media.Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
			Folder:    moduleCfg.MediaFolder,
		})
		if err != nil {
			return nil, err
		}
		deps.Media = uploader
	}

	notifier, err := marketplace.Notifier(deps)
	if err != nil {
		return nil, err
	}
	campaigns, err := marketplace.Service(deps)
	if err != nil {
		return nil, err
	}
	messageService := &services.MessageService{
		ConversationRepo: conversationRepo,
		MessageRepo:      messageRepo,
		Campaigns:        campaigns,
		Notifier:         notifier,
	}
	app.deps = deps

	// Handlers
	app.userHandler = &handlers.UserHandler{Service: userService}
	app.profileHandler = &handlers.ProfileHandler{Service: profileService}
	app.chatHandler = &handlers.ChatHandler{Service: messageService}
	app.messageHandler = &handlers.MessageHandler{Service: messageService}
	app.fcmHandler = &handlers.FCMHandler{Service: deviceService}

	return app, nil
}

func (app *application) close() {
	if app.amqpConn != nil {
		app.amqpConn.Close()
	}
}
