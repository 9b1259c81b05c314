package deps

import (
	"accounts/internal/config"
	dl "accounts/internal/core/domain/logging"
	drl "accounts/internal/core/domain/rate_limiter"
	"accounts/internal/core/domain/user"
	"accounts/internal/db/mongodb"
	dbmongouser "accounts/internal/db/mongodb/user"
	dbsession "accounts/internal/db/session"
	dbuser "accounts/internal/db/user"
	accountevents "accounts/internal/implementations/account_events"
	"accounts/internal/implementations/email"
	"accounts/internal/implementations/logging"
	passwordhasher "accounts/internal/implementations/password_hasher"
	randomstringgenerator "accounts/internal/implementations/random_string_generator"
	ratelimiter "accounts/internal/implementations/rate_limiter"
	"accounts/internal/implementations/session"
	tokenenvelope "accounts/internal/implementations/token_envelope"
	tokensender "accounts/internal/implementations/token_sender"
	"accounts/internal/rabbitmq"
	tokennotification "accounts/internal/rabbitmq/publishers/token_notification"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/r3labs/sse/v2"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB        *pgxpool.Pool
	Mongo     *mongo.Database
	Redis     *redis.Client
	Rabbitmq  *rabbitmq.Connection
	SseServer *sse.Server

	Now func() time.Time

	UserRepository    user.UserRepository
	SessionRepository user.SessionRepository

	RateLimiter drl.RateLimiter

	TokenGenerator        user.TokenGenerator
	TokenTTL              user.TokenTTL
	TokenEnvelope         user.TokenEnvelope
	TokenSender           user.TokenSender
	SessionTokenGenerator user.SessionTokenGenerator
	PasswordHasher        user.PasswordHasher
	EventPublisher        user.EventPublisher

	// EmailSender delivers tokens directly, it is nil if SES is not configured.
	EmailSender *email.EmailSender
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()

	closeLogger := deps.initLogger()
	flushSentry := deps.initSentry()
	closeStorage := deps.initStorage()
	closeRedisClient := deps.initRedisClient()
	closeSseServer := deps.initSseServer()

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.SessionRepository = dbsession.NewRedisRepository(deps.Redis, deps.UserRepository, deps.Config.SessionTTL)
	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)
	deps.TokenGenerator = randomstringgenerator.NewGenerator()
	deps.TokenTTL = user.TokenTTL{
		VerifyEmail:   deps.Config.VerifyEmailTokenTTL,
		ResetPassword: deps.Config.ResetPasswordTokenTTL,
	}
	deps.TokenEnvelope = tokenenvelope.NewJWT(deps.Config.Secret, deps.Config.TokenIssuer)
	deps.SessionTokenGenerator = session.NewUUID()
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.EventPublisher = accountevents.NewSSE(deps.SseServer)

	if deps.Config.IsEmailEnabled() {
		deps.initAwsConfig()
		deps.EmailSender = email.NewEmailSender(
			deps.AwsConfig,
			deps.Config.AwsEmailSender,
			email.Templates{
				VerifyEmail:   deps.Config.AwsEmailVerifyEmailTemplate,
				ResetPassword: deps.Config.AwsEmailResetPasswordTemplate,
			},
			deps.URLs(),
			deps.Now,
		)
	}

	closeRabbitmqConn := func() {}
	closeTokenNotificationPublisher := func() {}
	switch {
	case deps.Config.IsRabbitmqEnabled():
		closeRabbitmqConn = deps.initRabbitmqConnection()
		closeTokenNotificationPublisher = deps.initRabbitmqTokenNotificationPublisher()
	case deps.EmailSender != nil:
		deps.TokenSender = deps.EmailSender
	default:
		deps.TokenSender = tokensender.NewLog(deps.Logger, deps.URLs())
	}

	return deps, func() {
		closeFuncs := []func(){
			closeSseServer,
			closeTokenNotificationPublisher,
			closeRabbitmqConn,
			closeRedisClient,
			closeStorage,
			closeLogger,
			flushSentry,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) URLs() email.URLs {
	return email.URLs{
		VerifyEmail:   deps.Config.VerifyEmailURL,
		ResetPassword: deps.Config.ResetPasswordURL,
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger()
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initStorage() func() {
	switch deps.Config.Storage {
	case config.STORAGE_MONGODB:
		return deps.initMongo()
	default:
		return deps.initPgxPool()
	}
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	deps.UserRepository = dbuser.NewPgxRepository(db)
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initMongo() func() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongodb.Connect(ctx, deps.Config.MongodbURL)
	if err != nil {
		deps.Logger.Error(ctx, "Could not connect to MongoDB.", dl.Entry("err", err))
		panic(err)
	}
	deps.Mongo = client.Database(deps.Config.MongodbDatabase)
	if err := mongodb.EnsureIndexes(ctx, deps.Mongo); err != nil {
		deps.Logger.Error(ctx, "Could not create MongoDB indexes.", dl.Entry("err", err))
		panic(err)
	}
	deps.UserRepository = dbmongouser.NewMongoRepository(deps.Mongo)
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down MongoDB client.")
		client.Disconnect(context.Background())
		deps.Logger.Info(context.Background(), "MongoDB client shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

// DeclareTokenNotificationQueue opens a channel with the token notification
// queue declared on it.
func (deps *Deps) DeclareTokenNotificationQueue() *rabbitmq.Channel {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}
	queue := deps.Config.RabbitmqTokenNotificationQueue
	if err := rabbitmqChannel.DeclareQueue(deps.Config.RabbitmqExchange, queue, queue); err != nil {
		deps.Logger.Error(context.Background(), "Could not declare RabbitMQ queue.", dl.Entry("err", err))
		panic(err)
	}
	return rabbitmqChannel
}

func (deps *Deps) initRabbitmqTokenNotificationPublisher() func() {
	rabbitmqChannel := deps.DeclareTokenNotificationQueue()
	deps.TokenSender = tokennotification.NewRabbitMQ(
		deps.Logger,
		rabbitmqChannel,
		deps.Config.RabbitmqExchange,
		deps.Config.RabbitmqTokenNotificationQueue,
	)
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down token notification publisher.")
		rabbitmqChannel.Close()
		deps.Logger.Info(context.Background(), "Token notification publisher shut down.")
	}
}

func (deps *Deps) initSseServer() func() {
	deps.SseServer = sse.New()
	deps.SseServer.AutoStream = false
	deps.SseServer.AutoReplay = false
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down SSE server.")
		deps.SseServer.Close()
		deps.Logger.Info(context.Background(), "SSE server shut down.")
	}
}

func (deps *Deps) initSentry() func() {
	if deps.Config.SentryDsn != nil {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              deps.Config.SentryDsn.String(),
			TracesSampleRate: 0.01,
		})
		if err != nil {
			panic(fmt.Sprintf("could not init Sentry: %v\n", err))
		}
		deps.Logger.Info(context.Background(), "Sentry has been successfully initialized.")
		return func() {
			ok := logging.FlushSentry(5 * time.Second)
			deps.Logger.Info(context.Background(), "Sentry events flushed.", dl.Entry("ok", ok))
		}
	}

	deps.Logger.Info(context.Background(), "Sentry is disabled.")
	return func() {}
}
