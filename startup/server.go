package startup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cat_connect/authorization"
	"cat_connect/cache"
	"cat_connect/casbinAuthorization"
	"cat_connect/domain"
	"cat_connect/geocoder"
	"cat_connect/handlers"
	"cat_connect/mailer"
	"cat_connect/payments"
	application "cat_connect/service"
	"cat_connect/startup/config"
	"cat_connect/storage"
	"cat_connect/store"

	"github.com/casbin/casbin"
	"github.com/gorilla/mux"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"
)

type Server struct {
	config *config.Config
}

var Logger = logrus.New()

const (
	LogFilePath = "/app/logs/catconnect.log"

	meetupCleanupInterval = 24 * time.Hour
)

type CustomFormatter struct{}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	entry.Data["id"] = generateUniqueID()

	msg := fmt.Sprintf("[%s] [%s] [%s] %s\n",
		entry.Time.Format("2006-01-02T15:04:05Z07:00"),
		entry.Level,
		entry.Data["id"],
		entry.Message,
	)

	return []byte(msg), nil
}

func generateUniqueID() string {
	return fmt.Sprintf("ID-%d", time.Now().UnixNano())
}

func initLogger() {
	writer, err := rotatelogs.New(
		LogFilePath+"_%Y%m%d%H%M",
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		Logger.Fatalf("Failed to create rotatelogs hook: %v", err)
	}
	Logger.SetOutput(writer)

	Logger.SetFormatter(&CustomFormatter{})
}

func NewServer(config *config.Config) *Server {
	return &Server{
		config: config,
	}
}

func (server *Server) initMongoClient(httpClient *http.Client) *mongo.Client {
	client, err := store.GetClientWithHTTPConfig(server.config.CatConnectDBHost, server.config.CatConnectDBPort, httpClient)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initAuthCache(tracer trace.Tracer) domain.AuthCache {
	client, err := store.GetRedisClient(server.config.AuthCacheHost, server.config.AuthCachePort)
	if err != nil {
		log.Fatal(err)
	}
	return store.NewAuthRedisCache(client, tracer)
}

func (server *Server) Start() {

	initLogger()

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	mongoClient := server.initMongoClient(httpClient)
	defer func(mongoClient *mongo.Client, ctx context.Context) {
		err := mongoClient.Disconnect(ctx)
		if err != nil {

		}
	}(mongoClient, context.Background())

	ctx := context.Background()
	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		log.Fatalf("Failed to Initialize Exporter: %v", err)
	}

	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer("cat_connect")
	otel.SetTextMapPropagator(propagation.TraceContext{})

	secretKey := []byte(server.config.SecretKey)
	verifier, err := authorization.NewVerifier(secretKey)
	if err != nil {
		log.Fatalf("Failed to Initialize Token Verifier: %v", err)
	}

	userStore := store.NewUserMongoDBStore(mongoClient, tracer)
	catStore := store.NewCatMongoDBStore(mongoClient, tracer)
	chatStore := store.NewChatMongoDBStore(mongoClient, tracer)
	forumStore := store.NewForumMongoDBStore(mongoClient, tracer)
	meetupStore := store.NewMeetupMongoDBStore(mongoClient, tracer)
	subscriptionStore := store.NewSubscriptionMongoDBStore(mongoClient, tracer)
	ratingStore := store.NewRatingMongoDBStore(mongoClient, tracer)
	reportStore := store.NewReportMongoDBStore(mongoClient, tracer)
	adoptionStore := store.NewAdoptionMongoDBStore(mongoClient, tracer)
	paymentStore := store.NewPaymentMongoDBStore(mongoClient, tracer)
	authCache := server.initAuthCache(tracer)

	if err := catStore.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to Create Indexes: %v", err)
	}

	fileStorage, err := storage.New(Logger, tracer)
	if err != nil {
		log.Fatalf("Failed to Initialize File Storage: %v", err)
	}
	photoCache, err := cache.New(log.New(os.Stdout, "CACHE: ", log.LstdFlags), tracer)
	if err != nil {
		log.Fatalf("Failed to Initialize Photo Cache: %v", err)
	}

	mailPort, err := strconv.Atoi(server.config.MailPort)
	if err != nil {
		log.Fatalf("Invalid mail port: %v", err)
	}
	smtpMailer := mailer.New(server.config.MailServer, mailPort, server.config.MailUsername, server.config.MailPassword)
	openCage := geocoder.New(server.config.OpenCageKey, httpClient)
	stripeProvider := payments.New(
		server.config.StripeKey,
		server.config.StripeWebhookSecret,
		server.config.StripeSuccessURL,
		server.config.StripeCancelURL,
		Logger,
	)

	authService := application.NewAuthService(userStore, authCache, smtpMailer, secretKey, tracer, Logger)
	userService := application.NewUserService(userStore, catStore, openCage, tracer, Logger)
	catService := application.NewCatService(catStore, fileStorage, photoCache, tracer, Logger)
	matchmakingService := application.NewMatchmakingService(catStore, userStore, tracer, Logger)
	chatService := application.NewChatService(chatStore, catStore, tracer, Logger)
	forumService := application.NewForumService(forumStore, userStore, tracer, Logger)
	meetupService := application.NewMeetupService(meetupStore, tracer, Logger)
	subscriptionService := application.NewSubscriptionService(subscriptionStore, userStore, stripeProvider, tracer, Logger)
	ratingService := application.NewRatingService(ratingStore, userStore, tracer, Logger)
	reportService := application.NewReportService(reportStore, tracer, Logger)
	adoptionService := application.NewAdoptionService(adoptionStore, paymentStore, catStore, chatStore, tracer, Logger)

	authHandler := handlers.NewAuthHandler(authService, verifier, tracer, Logger)
	userHandler := handlers.NewUserHandler(userService, verifier, tracer, Logger)
	catHandler := handlers.NewCatHandler(catService, verifier, tracer, Logger)
	matchmakingHandler := handlers.NewMatchmakingHandler(matchmakingService, tracer, Logger)
	chatHandler := handlers.NewChatHandler(chatService, verifier, tracer, Logger)
	forumHandler := handlers.NewForumHandler(forumService, verifier, tracer, Logger)
	meetupHandler := handlers.NewMeetupHandler(meetupService, verifier, tracer, Logger)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, verifier, tracer, Logger)
	ratingHandler := handlers.NewRatingHandler(ratingService, verifier, tracer, Logger)
	reportHandler := handlers.NewReportHandler(reportService, verifier, tracer, Logger)
	adoptionHandler := handlers.NewAdoptionHandler(adoptionService, verifier, tracer, Logger)

	go server.runMeetupCleanup(meetupService)

	enforcer, err := casbin.NewEnforcerSafe("./rbac_model.conf", "./policy.csv")
	if err != nil {
		log.Fatal(err)
	}
	log.Println("cat connect successful init of enforcer")

	router := mux.NewRouter()
	router.Use(MiddlewareContentTypeSet)
	router.Use(handlers.ExtractTraceInfoMiddleware)

	authHandler.Init(router.PathPrefix("/api/auth").Subrouter())
	userHandler.Init(router.PathPrefix("/api/users").Subrouter())
	catHandler.Init(router.PathPrefix("/api/cats").Subrouter())
	matchmakingHandler.Init(router.PathPrefix("/api/matchmaking").Subrouter())
	chatHandler.Init(router.PathPrefix("/api/chats").Subrouter())
	forumHandler.Init(router.PathPrefix("/api/forum").Subrouter())
	meetupHandler.Init(router.PathPrefix("/api/meetups").Subrouter())
	subscriptionHandler.Init(router.PathPrefix("/api/subscriptions").Subrouter())
	ratingHandler.Init(router.PathPrefix("/api/ratings").Subrouter())
	reportHandler.Init(router.PathPrefix("/api/reports").Subrouter())
	adoptionHandler.Init(router.PathPrefix("/api/adoptions").Subrouter())

	server.start(casbinAuthorization.CasbinMiddleware(enforcer, verifier, Logger)(router))
}

// runMeetupCleanup removes meetups from past days, once at startup and then
// daily.
func (server *Server) runMeetupCleanup(meetupService *application.MeetupService) {
	for {
		_, err := meetupService.CleanupExpired(context.Background())
		if err != nil {
			Logger.Errorf("Server.runMeetupCleanup : %s", err)
		}
		time.Sleep(meetupCleanupInterval)
	}
}

func (server *Server) start(handler http.Handler) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", server.config.Port),
		Handler: handler,
	}

	wait := time.Second * 15
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	c := make(chan os.Signal, 1)

	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Error Shutting Down Server %s", err)
	}
	log.Println("Server Gracefully Stopped")
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("cat_connect"),
		),
	)

	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}
