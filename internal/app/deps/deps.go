package deps

import (
	"accounts/internal/config"
	dl "accounts/internal/core/domain/logging"
	drl "accounts/internal/core/domain/rate_limiter"
	duow "accounts/internal/core/domain/unit_of_work"
	"accounts/internal/core/domain/user"
	uow "accounts/internal/db/unit_of_work"
	dbuser "accounts/internal/db/user"
	"accounts/internal/implementations/email"
	"accounts/internal/implementations/logging"
	passwordhasher "accounts/internal/implementations/password_hasher"
	randomstringgenerator "accounts/internal/implementations/random_string_generator"
	ratelimiter "accounts/internal/implementations/rate_limiter"
	"accounts/internal/implementations/session"
	"accounts/internal/rabbitmq"
	passwordresetsms "accounts/internal/rabbitmq/publishers/password_reset_sms"
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
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB       *pgxpool.Pool
	Redis    *redis.Client
	Rabbitmq *rabbitmq.Connection

	Now func() time.Time

	UnitOfWork     duow.UnitOfWork
	UserRepository user.UserRepository

	RateLimiter drl.RateLimiter

	PasswordHasher              user.PasswordHasher
	SessionIssuer               user.SessionIssuer
	PasswordResetTokenGenerator user.PasswordResetTokenGenerator
	PasswordResetTokenSenders   user.PasswordResetTokenSenders
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger, flushSentry := deps.initLogger()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()
	closeRabbitmqConn := deps.initRabbitmqConnection()

	deps.Now = func() time.Time { return time.Now().UTC() }

	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB)
	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)

	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.BcryptHasherCost)
	deps.SessionIssuer = session.NewJWT(
		deps.Config.Secret,
		deps.Config.SessionTTL,
		deps.Config.SessionIssuer,
		deps.Now,
	)
	deps.PasswordResetTokenGenerator = randomstringgenerator.NewGenerator()

	closeSMSPublisher := deps.initPasswordResetTokenSenders()

	return deps, func() {
		closeFuncs := []func(){
			closeSMSPublisher,
			closeRabbitmqConn,
			closeRedisClient,
			closePgxPool,
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
		closeLogger()
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
	options := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	}
	// Without static keys the default chain (env, shared config, IAM role) is used.
	if deps.Config.AwsAccessKey != "" {
		options = append(options, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		))
	}

	cfg, err := awsConfig.LoadDefaultConfig(context.Background(), options...)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

// initLogger must run before any component takes deps.Logger.
func (deps *Deps) initLogger() (func(), func()) {
	logger := logging.NewZapLogger(deps.Config.IsDebug)
	deps.Logger = logger
	flushSentry := deps.initSentry()
	if deps.Config.SentryDsn != nil {
		deps.Logger = logger.WithSentry(sentry.CurrentHub())
	}
	return func() { logger.Sync() }, flushSentry
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
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

// initPasswordResetTokenSenders registers every supported delivery method.
func (deps *Deps) initPasswordResetTokenSenders() func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}
	if err := rabbitmqChannel.DeclareQueue(deps.Config.RabbitmqSMSQueue); err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ queue.", dl.Entry("err", err))
		panic(err)
	}

	deps.PasswordResetTokenSenders = user.PasswordResetTokenSenders{
		user.DeliveryMethodEmail: email.NewPasswordResetSender(
			deps.AwsConfig,
			deps.Config.AwsEmailSender,
			deps.Config.AwsEmailPasswordResetTemplate,
			deps.Now,
		),
		user.DeliveryMethodSMS: passwordresetsms.NewRabbitMQ(
			deps.Logger,
			rabbitmqChannel,
			deps.Config.RabbitmqSMSQueue,
			deps.Now,
		),
	}

	return func() {
		deps.Logger.Info(context.Background(), "Shutting down SMS publisher.")
		rabbitmqChannel.Close()
		deps.Logger.Info(context.Background(), "SMS publisher shut down.")
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
			ok := sentry.Flush(5 * time.Second)
			deps.Logger.Info(context.Background(), "Sentry events flushed.", dl.Entry("ok", ok))
		}
	}

	deps.Logger.Info(context.Background(), "Sentry is disabled.")
	return func() {}
}
