package rest

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echo_middleware "github.com/labstack/echo/v4/middleware"
	"github.com/pot-code/interview-prep/internal/course"
	"github.com/pot-code/interview-prep/internal/dashboard"
	infra "github.com/pot-code/interview-prep/internal/infrastructure"
	"github.com/pot-code/interview-prep/internal/infrastructure/auth"
	"github.com/pot-code/interview-prep/internal/infrastructure/driver"
	"github.com/pot-code/interview-prep/internal/infrastructure/uuid"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/infrastructure/ws"
	"github.com/pot-code/interview-prep/internal/interfaces/rest/handler"
	"github.com/pot-code/interview-prep/internal/interfaces/rest/middleware"
	"github.com/pot-code/interview-prep/internal/practice"
	"github.com/pot-code/interview-prep/internal/resume"
	"github.com/pot-code/interview-prep/internal/roadmap"
	"github.com/pot-code/interview-prep/internal/session"
	"github.com/pot-code/interview-prep/internal/settings"
	"github.com/pot-code/interview-prep/internal/workspace"
	"go.elastic.co/apm/module/apmechov4"
	"go.uber.org/zap"
)

const voiceSocketPath = "/api/voice-interview/ws"

// Services use cases behind the http surface
type Services struct {
	Sessions   session.SessionUseCase
	Workspaces *workspace.Registry
	Courses    course.CourseUseCase
	Tutorials  practice.TutorialUseCase
	Resumes    resume.ResumeUseCase
	Dashboard  dashboard.DashboardUseCase
	Settings   settings.SettingsUseCase
	Roadmaps   *roadmap.Catalog
	Validator  validate.Validator
	SessionIDs uuid.Generator
}

// NewApp create the http transport
func NewApp(
	conn driver.ITransactionalDB,
	kv driver.KeyValueDB,
	option *infra.AppConfig,
	svc *Services,
	logger *zap.Logger,
) *echo.Echo {
	var (
		app              = echo.New()
		cookie           = auth.NewSessionCookie(option.Session.CookieName, option.Session.Secure, option.Session.TTL)
		loadSession      = middleware.LoadSession(cookie, svc.SessionIDs, option.Session.IDLength)
		requireAuth      = middleware.RequireAuth(svc.Sessions)
		traceMiddlewares = []echo.MiddlewareFunc{echo_middleware.RequestID(), middleware.SetTraceLogger(logger)}
	)
	app.HideBanner = true

	registerLivenessProbe(app, conn, kv)
	if option.Env == infra.EnvDevelopment {
		registerProfileEndpoints(app)
	}
	app.Use(middleware.Logging(logger, &middleware.LoggingConfig{
		Skipper: func(e echo.Context) bool {
			return strings.HasPrefix(e.Request().URL.Path, "/healthz")
		},
	}))
	app.Use(middleware.ErrorHandling(
		&middleware.ErrorHandlingOption{
			Classify: handler.ErrorResponse,
			Handler: func(c echo.Context, err error) {
				traceID := c.Response().Header().Get(echo.HeaderXRequestID)
				body := handler.NewRESTStandardError(http.StatusInternalServerError, "Something went wrong. Please reload the page.").SetTraceID(traceID)
				fields := []zap.Field{zap.String("trace.id", traceID), zap.String("url.path", c.Request().URL.Path)}
				var pe *middleware.PanicError
				if errors.As(err, &pe) {
					fields = append(fields, zap.ByteString("error.stack_trace", pe.Stack))
					if option.Env == infra.EnvDevelopment {
						body.Stack = pe.Error() + "\n" + string(pe.Stack)
					}
				}
				c.JSON(http.StatusInternalServerError, body)
				logger.Error(err.Error(), fields...)
			},
		},
	))
	app.Use(echo_middleware.Secure())
	if option.DevOP.APM {
		app.Use(apmechov4.Middleware())
	}
	app.Use(echo_middleware.CORS())
	app.Use(middleware.AbortRequest(&middleware.AbortRequestOption{
		Timeout: option.RequestTimeout,
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == voiceSocketPath
		},
	}))

	var (
		SessionHandler   = handler.NewSessionHandler(svc.Sessions, svc.Validator, cookie)
		ShellHandler     = handler.NewShellHandler(svc.Sessions, svc.Roadmaps)
		AptitudeHandler  = handler.NewAptitudeHandler(svc.Workspaces)
		InterviewHandler = handler.NewInterviewHandler(svc.Workspaces)
		VideoHandler     = handler.NewVideoHandler(svc.Workspaces, option.Capture.MaxUpload)
		VoiceHandler     = handler.NewVoiceHandler(svc.Workspaces)
		CourseHandler    = handler.NewCourseHandler(svc.Courses, svc.Workspaces)
		PracticeHandler  = handler.NewPracticeHandler(svc.Workspaces, svc.Tutorials)
		ResumeHandler    = handler.NewResumeHandler(svc.Resumes)
		DashboardHandler = handler.NewDashboardHandler(svc.Dashboard)
		SettingsHandler  = handler.NewSettingsHandler(svc.Settings)
		authenticated    = []echo.MiddlewareFunc{requireAuth}
	)

	createEndpoint(app,
		&endpoint{
			apiVersion:  "api",
			middlewares: append(traceMiddlewares, loadSession),
			groups: []*apiGroup{
				{
					prefix: "/auth",
					routes: []*route{
						{"GET", "/session", SessionHandler.HandleSnapshot, nil},
						{"POST", "/check", SessionHandler.HandleCheck, nil},
						{"POST", "/login", SessionHandler.HandleLogin, nil},
						{"POST", "/signup", SessionHandler.HandleSignup, nil},
						{"POST", "/logout", SessionHandler.HandleLogout, nil},
						{"POST", "/forgot-password", SessionHandler.HandleForgotPassword, nil},
						{"POST", "/reset-password", SessionHandler.HandleResetPassword, nil},
					},
				},
				{
					prefix: "/route",
					routes: []*route{
						{"GET", "", ShellHandler.HandleResolve, nil},
					},
				},
				{
					prefix:      "/study-center",
					middlewares: authenticated,
					routes: []*route{
						{"GET", "", ShellHandler.HandleStudyCenter, nil},
					},
				},
				{
					prefix:      "/roadmaps",
					middlewares: authenticated,
					routes: []*route{
						{"GET", "", ShellHandler.HandleRoadmaps, nil},
						{"GET", "/:category", ShellHandler.HandleRoadmapCategory, nil},
						{"GET", "/:category/:title", ShellHandler.HandleRoadmap, nil},
					},
				},
				{
					prefix:      "/aptitude",
					middlewares: authenticated,
					routes: []*route{
						{"GET", "", AptitudeHandler.HandleView, nil},
						{"GET", "/catalog", AptitudeHandler.HandleCatalog, nil},
						{"GET", "/history", AptitudeHandler.HandleHistory, nil},
						{"POST", "/start", AptitudeHandler.HandleStart, nil},
						{"PUT", "/answers/:index", AptitudeHandler.HandleAnswer, nil},
						{"POST", "/goto/:index", AptitudeHandler.HandleGoto, nil},
						{"POST", "/submit", AptitudeHandler.HandleSubmit, nil},
						{"POST", "/certificate", AptitudeHandler.HandleCertificate, nil},
						{"POST", "/reset", AptitudeHandler.HandleReset, nil},
					},
				},
				{
					prefix:      "/interview",
					middlewares: authenticated,
					routes: []*route{
						{"GET", "", InterviewHandler.HandleView, nil},
						{"GET", "/catalog", InterviewHandler.HandleCatalog, nil},
						{"GET", "/history", InterviewHandler.HandleHistory, nil},
						{"GET", "/feedback", InterviewHandler.HandleFeedback, nil},
						{"GET", "/certificate", InterviewHandler.HandleCertificate, nil},
						{"POST", "/start", InterviewHandler.HandleStart, nil},
						{"POST", "/respond", InterviewHandler.HandleRespond, nil},
						{"POST", "/advance", InterviewHandler.HandleAdvance, nil},
						{"POST", "/complete", InterviewHandler.HandleComplete, nil},
						{"POST", "/reset", InterviewHandler.HandleReset, nil},
					},
				},
				{
					prefix:      "/video-interview",
					middlewares: authenticated,
					routes: []*route{
						{"GET", "", VideoHandler.HandleView, nil},
						{"POST", "/camera", VideoHandler.HandleCamera, nil},
						{"POST", "/start", VideoHandler.HandleStart, nil},
						{"POST", "/recording/start", VideoHandler.HandleStartRecording, nil},
						{"POST", "/recording/stop", VideoHandler.HandleStopRecording, nil},
						{"POST", "/clips", VideoHandler.HandleUploadClip, uploadLimit(option.Capture.MaxUpload)},
						{"GET", "/clips/:id", VideoHandler.HandleClip, nil},
						{"POST", "/next", VideoHandler.HandleNext, nil},
						{"POST", "/complete", VideoHandler.HandleComplete, nil},
						{"GET", "/certificate", VideoHandler.HandleCertificate, nil},
						{"POST", "/reset", VideoHandler.HandleReset, nil},
					},
				},
				{
					prefix:      "/voice-interview",
					middlewares: authenticated,
					routes: []*route{
						{"GET", "", VoiceHandler.HandleView, nil},
						{"GET", "/catalog", VoiceHandler.HandleCatalog, nil},
						{"GET", "/certificate", VoiceHandler.HandleCertificate, nil},
						{"GET", "/feedback", VoiceHandler.HandleFeedback, nil},
						{"POST", "/complete", VoiceHandler.HandleComplete, nil},
						{"GET", "/ws", ws.WithHeartbeat(VoiceHandler.HandleSocket), nil},
					},
				},
				{
					prefix:      "/courses",
					middlewares: authenticated,
					routes: []*route{
						{"GET", "", CourseHandler.HandleCatalog, nil},
						{"POST", "/:id/enroll", CourseHandler.HandleEnroll, nil},
						{"DELETE", "/:id/enroll", CourseHandler.HandleUnenroll, nil},
						{"POST", "/:id/open", CourseHandler.HandleLoad, nil},
					},
				},
				{
					prefix:      "/course-viewer",
					middlewares: authenticated,
					routes: []*route{
						{"GET", "", CourseHandler.HandleView, nil},
						{"POST", "/lessons/:lessonId", CourseHandler.HandleOpen, nil},
						{"POST", "/prev", CourseHandler.HandlePrev, nil},
						{"POST", "/next", CourseHandler.HandleNext, nil},
						{"POST", "/explain", CourseHandler.HandleExplain, nil},
						{"POST", "/complete", CourseHandler.HandleComplete, nil},
						{"GET", "/certificate", CourseHandler.HandleCertificate, nil},
					},
				},
				{
					prefix:      "/practice",
					middlewares: authenticated,
					routes: []*route{
						{"GET", "/flashcards", PracticeHandler.HandleDeckView, nil},
						{"POST", "/flashcards/start", PracticeHandler.HandleDeckStart, nil},
						{"POST", "/flashcards/flip", PracticeHandler.HandleFlip, nil},
						{"POST", "/flashcards/next", PracticeHandler.HandleNextCard, nil},
						{"POST", "/flashcards/reset", PracticeHandler.HandleDeckReset, nil},
						{"GET", "/:kind", PracticeHandler.HandleView, nil},
						{"GET", "/:kind/catalog", PracticeHandler.HandleCatalog, nil},
						{"POST", "/:kind/start", PracticeHandler.HandleStart, nil},
						{"POST", "/:kind/select/:index", PracticeHandler.HandleSelect, nil},
						{"PUT", "/:kind/code", PracticeHandler.HandleCode, nil},
						{"POST", "/:kind/submit", PracticeHandler.HandleSubmit, nil},
						{"POST", "/:kind/reset", PracticeHandler.HandleReset, nil},
					},
				},
				{
					prefix:      "/tutorials",
					middlewares: authenticated,
					routes: []*route{
						{"GET", "", PracticeHandler.HandleTopics, nil},
						{"GET", "/:category/:topic", PracticeHandler.HandleTutorial, nil},
					},
				},
				{
					prefix:      "/resumes",
					middlewares: authenticated,
					routes: []*route{
						{"GET", "", ResumeHandler.HandleList, nil},
						{"POST", "", ResumeHandler.HandleUpload, uploadLimit(option.Resume.MaxUpload)},
						{"GET", "/:id", ResumeHandler.HandleGet, nil},
					},
				},
				{
					prefix:      "/dashboard",
					middlewares: authenticated,
					routes: []*route{
						{"GET", "", DashboardHandler.HandleOverview, nil},
						{"GET", "/achievements", DashboardHandler.HandleAchievements, nil},
						{"POST", "/achievements/:id/claim", DashboardHandler.HandleClaim, nil},
						{"GET", "/leaderboard", DashboardHandler.HandleLeaderboard, nil},
					},
				},
				{
					prefix:      "/faq",
					middlewares: authenticated,
					routes: []*route{
						{"GET", "", DashboardHandler.HandleFAQs, nil},
						{"GET", "/search", DashboardHandler.HandleSearchFAQs, nil},
					},
				},
				{
					prefix:      "/settings",
					middlewares: authenticated,
					routes: []*route{
						{"PUT", "/profile", SettingsHandler.HandleSaveProfile, nil},
						{"POST", "/password", SettingsHandler.HandleChangePassword, nil},
						{"GET", "/preferences", SettingsHandler.HandlePreferences, nil},
						{"PUT", "/preferences", SettingsHandler.HandleSavePreferences, nil},
						{"GET", "/export", SettingsHandler.HandleExport, nil},
						{"DELETE", "/account", SettingsHandler.HandleDeleteAccount, nil},
					},
				},
			},
		})

	pageMiddlewares := append(traceMiddlewares, loadSession)
	app.GET("/", ShellHandler.HandlePage, pageMiddlewares...)
	app.GET("/*", ShellHandler.HandlePage, pageMiddlewares...)

	printRoutes(app, logger)
	return app
}

// Serve start app, blocks until ctx is done and the server has shut down
func Serve(ctx context.Context, app *echo.Echo, option *infra.AppConfig) error {
	errc := make(chan error, 1)
	go func() {
		errc <- app.Start(fmt.Sprintf("%s:%d", option.Host, option.Port))
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}

func printRoutes(app *echo.Echo, logger *zap.Logger) {
	for _, route := range app.Routes() {
		if !strings.HasPrefix(route.Name, "github.com/labstack/echo") {
			logger.Debug("Registered route", zap.String("method", route.Method), zap.String("path", route.Path))
		}
	}
}

func registerLivenessProbe(app *echo.Echo, db driver.ITransactionalDB, kv driver.KeyValueDB) {
	app.GET("/healthz", func(c echo.Context) error {
		ctx := c.Request().Context()
		if db.Ping(ctx) == nil && kv.Ping(ctx) == nil {
			return c.NoContent(http.StatusOK)
		}
		return c.NoContent(http.StatusServiceUnavailable)
	})
}

func registerProfileEndpoints(app *echo.Echo) {
	expvarHandler := expvar.Handler()
	app.GET("/debug/vars", func(c echo.Context) error {
		expvarHandler.ServeHTTP(c.Response().Writer, c.Request())
		return nil
	})
	app.GET("/debug/pprof/", func(c echo.Context) error {
		pprof.Index(c.Response().Writer, c.Request())
		return nil
	})
	app.GET("/debug/pprof/:name", func(c echo.Context) error {
		switch c.Param("name") {
		case "cmdline":
			pprof.Cmdline(c.Response().Writer, c.Request())
		case "profile":
			pprof.Profile(c.Response().Writer, c.Request())
		case "symbol":
			pprof.Symbol(c.Response().Writer, c.Request())
		case "trace":
			pprof.Trace(c.Response().Writer, c.Request())
		default:
			pprof.Handler(c.Param("name")).ServeHTTP(c.Response().Writer, c.Request())
		}
		return nil
	})
}
