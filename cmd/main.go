package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/capture"
	"github.com/pot-code/interview-prep/internal/course"
	"github.com/pot-code/interview-prep/internal/dashboard"
	infra "github.com/pot-code/interview-prep/internal/infrastructure"
	"github.com/pot-code/interview-prep/internal/infrastructure/driver"
	"github.com/pot-code/interview-prep/internal/infrastructure/logging"
	"github.com/pot-code/interview-prep/internal/infrastructure/markdown"
	"github.com/pot-code/interview-prep/internal/infrastructure/uuid"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/interfaces/rest"
	"github.com/pot-code/interview-prep/internal/practice"
	"github.com/pot-code/interview-prep/internal/resume"
	"github.com/pot-code/interview-prep/internal/roadmap"
	"github.com/pot-code/interview-prep/internal/session"
	"github.com/pot-code/interview-prep/internal/settings"
	"github.com/pot-code/interview-prep/internal/workspace"
	"go.elastic.co/apm/module/apmhttp"
	"go.uber.org/zap"
)

func main() {
	log.SetFlags(log.Lshortfile | log.Ldate | log.Ltime)
	option, err := infra.InitConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(&logging.Config{
		FilePath: option.Logging.FilePath,
		Level:    option.Logging.Level,
		AppID:    option.AppID,
		Env:      option.Env,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %s\n", err)
	}
	logger = logger.With(
		zap.String("service.id", option.AppID),
	)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConn, err := driver.GetDBConnection(&driver.DBConfig{
		User:     option.Database.User,
		Password: option.Database.Password,
		MaxConn:  option.Database.MaxConn,
		Protocol: option.Database.Protocol,
		Driver:   option.Database.Driver,
		Host:     option.Database.Host,
		Port:     option.Database.Port,
		Query:    option.Database.Query,
		Schema:   option.Database.Schema,
	})
	if err != nil {
		logger.Fatal("Failed to create DB connection", zap.Error(err))
	}
	logger.Debug("Create DB connection instance", zap.String("db.driver", option.Database.Driver),
		zap.String("db.schema", option.Database.Schema),
		zap.String("db.host", option.Database.Host),
	)
	PreferencesRepo := settings.NewPreferencesSQL(dbConn)
	if err := PreferencesRepo.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate preferences table", zap.Error(err))
	}

	var kv driver.KeyValueDB
	if option.KVStore.Host != "" {
		kv = driver.NewRedisClient(&driver.RedisConfig{
			Host:     option.KVStore.Host,
			Port:     option.KVStore.Port,
			Password: option.KVStore.Password,
			DB:       option.KVStore.DB,
		})
		logger.Debug("Create redis client", zap.String("kv.host", option.KVStore.Host), zap.Int("kv.port", option.KVStore.Port))
	} else {
		kv = driver.NewMemoryKV()
		logger.Debug("Keep session tokens in memory")
	}

	Tokens := session.NewTokenKV(kv, option.Session.TTL)
	Client, err := apiclient.New(option.API.BaseURL,
		apiclient.WithHTTPClient(apmhttp.WrapClient(&http.Client{})),
		apiclient.WithTimeout(option.API.Timeout),
		apiclient.WithTokenSource(Tokens),
	)
	if err != nil {
		logger.Fatal("Failed to create API client", zap.Error(err))
	}

	Roadmaps, err := roadmap.Load(option.Roadmaps.File)
	if err != nil {
		logger.Fatal("Failed to load roadmaps", zap.Error(err), zap.String("roadmaps.file", option.Roadmaps.File))
	}

	Validator := validate.NewValidator("en")
	Markdown := markdown.NewGoldmark()
	SessionIDs := uuid.NewNanoIDGenerator(option.Session.IDLength)

	Workspaces := workspace.NewRegistry(&workspace.Deps{
		API:       Client,
		Validator: Validator,
		Markdown:  Markdown,
		IDs:       uuid.RandomGenerator{},
		Capture: capture.Options{
			ClipLength: option.Capture.ClipLength,
			MaxClip:    int(option.Capture.MaxUpload),
		},
	})
	SessionUseCase := session.NewSessionUseCase(Client, Tokens, option.Session.TTL)
	SessionUseCase.OnLogout(func(sid string) {
		Workspaces.Drop(context.Background(), sid)
	})

	app := rest.NewApp(dbConn, kv, option, &rest.Services{
		Sessions:   SessionUseCase,
		Workspaces: Workspaces,
		Courses:    course.NewCourseUseCase(Client),
		Tutorials:  practice.NewTutorialUseCase(Client, Markdown),
		Resumes:    resume.NewResumeUseCase(Client, option.Resume.MaxUpload),
		Dashboard:  dashboard.NewDashboardUseCase(Client),
		Settings:   settings.NewSettingsUseCase(SessionUseCase, Client, PreferencesRepo, Validator),
		Roadmaps:   Roadmaps,
		Validator:  Validator,
		SessionIDs: SessionIDs,
	}, logger)
	if err := rest.Serve(ctx, app, option); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
