package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/edubridge/university-lms/internal/config"
	"github.com/edubridge/university-lms/internal/es"
	"github.com/edubridge/university-lms/internal/events"
	"github.com/edubridge/university-lms/internal/everycred"
	"github.com/edubridge/university-lms/internal/handlers"
	"github.com/edubridge/university-lms/internal/logging"
	"github.com/edubridge/university-lms/internal/mailer"
	mwauth "github.com/edubridge/university-lms/internal/middleware/auth"
	mwlogging "github.com/edubridge/university-lms/internal/middleware/logging"
	"github.com/edubridge/university-lms/internal/repo"
	"github.com/edubridge/university-lms/internal/search"
	"github.com/edubridge/university-lms/internal/service"
	"github.com/edubridge/university-lms/internal/tokens"
	httpserver "github.com/edubridge/university-lms/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	tokenService, err := tokens.New([]byte(configuration.JWT_SECRET_KEY), configuration.JWT_ALGORITHM)
	if err != nil {
		log.Fatalf("token service error: %v", err)
	}
	tokenService.AccessTTL = time.Duration(configuration.JWT_ACCESS_TOKEN_EXPIRE_MINUTES) * time.Minute
	tokenService.RefreshTTL = time.Duration(configuration.JWT_REFRESH_TOKEN_EXPIRE_DAYS) * 24 * time.Hour

	repository := repo.New(db)

	var producer *events.Producer
	var publisher service.EventPublisher
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{configuration.KAFKA_ADDRESS})
		publisher = producer
	} else {
		log.Println("KAFKA_ADDRESS not set, domain events disabled")
	}

	var indexer *search.Indexer
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		indexer = &search.Indexer{ES: esClient, Index: "courses"}
	} else {
		log.Println("ES_URL not set, course search disabled")
	}

	smtpMailer := &mailer.SMTPMailer{
		Host:     configuration.SMTP_HOST,
		Port:     configuration.SMTP_PORT,
		Username: configuration.SMTP_USER,
		Password: configuration.SMTP_PASSWORD,
		From:     configuration.DEFAULT_FROM_EMAIL,
		Timeout:  15 * time.Second,
	}

	credClient := everycred.New(everycred.Config{
		APIURL:    configuration.EVERYCRED_API_URL,
		APIToken:  configuration.EVERYCRED_API_TOKEN,
		IssuerID:  configuration.EVERYCRED_ISSUER_ID,
		GroupID:   configuration.EVERYCRED_GROUP_ID,
		SubjectID: configuration.EVERYCRED_SUBJECT_ID,
		MockMode:  configuration.EVERYCRED_MOCK_MODE,
	})

	authService := &service.AuthService{
		Repo:        repository,
		Tokens:      tokenService,
		Mailer:      smtpMailer,
		Events:      publisher,
		FrontendURL: configuration.FRONTEND_URL,
		RenderReset: mailer.RenderResetEmail,
	}
	courseService := &service.CourseService{Repo: repository}
	if indexer != nil {
		courseService.Indexer = indexer
	}
	studentService := &service.StudentService{Repo: repository}
	credentialService := &service.CredentialService{
		Repo:        repository,
		Issuer:      credClient,
		Events:      publisher,
		Institution: "University LMS",
	}

	authenticator := &mwauth.Authenticator{
		Repo:        repository,
		Tokens:      tokenService,
		Permissions: mwauth.DefaultPermissions(),
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(mwlogging.RequestLogger(logger))

	deps := httpserver.Deps{
		Auth:              authenticator,
		AuthHandler:       &handlers.AuthHandler{Service: authService},
		CourseHandler:     &handlers.CourseHandler{Service: courseService},
		StudentHandler:    &handlers.StudentHandler{Service: studentService},
		CredentialHandler: &handlers.CredentialHandler{Service: credentialService},
	}
	if indexer != nil {
		deps.SearchHandler = &handlers.SearchHandler{Indexer: indexer}
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
