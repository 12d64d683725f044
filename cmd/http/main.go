package main

import (
	"context"
	"fmt"
	"healnexus-service/internal/app/config"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/app/delivery/http/controllers"
	"healnexus-service/internal/app/delivery/http/middlewares"
	"healnexus-service/internal/app/delivery/http/routers"
	"healnexus-service/internal/app/drivers/database"
	"healnexus-service/internal/app/drivers/logger"
	"healnexus-service/internal/app/drivers/messaging"
	"healnexus-service/internal/app/drivers/storage"
	"healnexus-service/internal/app/services/core/appointments"
	"healnexus-service/internal/app/services/core/profiles"
	"healnexus-service/internal/app/services/core/session"
	"healnexus-service/internal/app/services/core/slots"
	"healnexus-service/internal/app/services/shared/locker"
	"healnexus-service/internal/app/services/shared/mailer"
	"healnexus-service/internal/app/services/shared/memory"
	"healnexus-service/internal/app/services/shared/metrics"
	"healnexus-service/internal/app/services/shared/payment_gateway"
	redisRepository "healnexus-service/internal/app/services/shared/redis"
	receiptStorage "healnexus-service/internal/app/services/shared/storage"
	"healnexus-service/internal/pkg/constvars"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

type appDependencies struct {
	Appointments   contracts.AppointmentRepository
	Slots          contracts.SlotCalendarRepository
	Doctors        contracts.DoctorProfileRepository
	Patients       contracts.PatientProfileRepository
	Users          contracts.UserRepository
	KeyValue       contracts.RedisRepository
	MailerService  contracts.MailerService
	ReceiptStorage contracts.ReceiptStorage
}

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	err := bootstrapingTheApp(bootstrap)
	if err != nil {
		log.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", internalConfig.App.Port),
		Handler:           bootstrap.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server started", zap.String("addr", server.Addr), zap.String("storage_driver", internalConfig.App.StorageDriver))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Error while releasing resources", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	var (
		deps *appDependencies
		err  error
	)
	if bootstrap.InternalConfig.App.UsesMemoryStorage() {
		deps, err = memoryDependencies(bootstrap)
	} else {
		deps, err = mongoDependencies(bootstrap)
	}
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.NewBookingMetrics(registry)

	lockService := locker.NewLockService(deps.KeyValue, bootstrap.Logger)
	sessionService := session.NewSessionService(deps.KeyValue)

	appointmentUsecase := appointments.NewAppointmentUsecase(
		deps.Appointments,
		deps.Slots,
		deps.Doctors,
		deps.Patients,
		deps.Users,
		lockService,
		deps.MailerService,
		deps.ReceiptStorage,
		payment_gateway.NewStubPaymentGateway(bootstrap.Logger),
		bookingMetrics,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	bootstrap.DrainBackground = appointmentUsecase.Wait

	if bootstrap.InternalConfig.Booking.HoldExpiryInMinutes > 0 {
		holdSweeper := appointments.NewHoldSweeper(bootstrap.Logger, bootstrap.InternalConfig, lockService, appointmentUsecase)
		holdSweeper.Start(context.Background())
		bootstrap.WorkerStop = holdSweeper.Stop
	}

	appointmentController := controllers.NewAppointmentController(
		bootstrap.Logger,
		appointmentUsecase,
		sessionService,
		time.Duration(bootstrap.InternalConfig.App.RequestTimeoutInSeconds)*time.Second,
	)
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, sessionService, bootstrap.InternalConfig)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, middlewares, registry, appointmentController)
	return nil
}

func mongoDependencies(bootstrap *config.Bootstrap) (*appDependencies, error) {
	driverConfig := bootstrap.DriverConfig
	internalConfig := bootstrap.InternalConfig

	bootstrap.MongoDB = database.NewMongoDB(driverConfig)
	bootstrap.Redis = database.NewRedisClient(driverConfig)
	bootstrap.RabbitMQ = messaging.NewRabbitMQ(driverConfig)
	bootstrap.Minio = storage.NewMinio(driverConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbName := driverConfig.MongoDB.DbName
	err := appointments.EnsureAppointmentIndexes(ctx, bootstrap.MongoDB, dbName)
	if err != nil {
		return nil, err
	}
	err = slots.EnsureSlotIndexes(ctx, bootstrap.MongoDB, dbName)
	if err != nil {
		return nil, err
	}
	err = receiptStorage.EnsureBucket(ctx, bootstrap.Minio, internalConfig.Minio.BucketName, driverConfig.Minio.Region)
	if err != nil {
		return nil, err
	}

	mailerService, err := mailer.NewMailerService(bootstrap.RabbitMQ, internalConfig.RabbitMQ.MailerQueue, bootstrap.Logger)
	if err != nil {
		return nil, err
	}

	return &appDependencies{
		Appointments:   appointments.NewAppointmentMongoRepository(bootstrap.MongoDB, dbName),
		Slots:          slots.NewSlotMongoRepository(bootstrap.MongoDB, dbName),
		Doctors:        profiles.NewDoctorMongoRepository(bootstrap.MongoDB, dbName),
		Patients:       profiles.NewPatientMongoRepository(bootstrap.MongoDB, dbName),
		Users:          profiles.NewUserMongoRepository(bootstrap.MongoDB, dbName),
		KeyValue:       redisRepository.NewRedisRepository(bootstrap.Redis),
		MailerService:  mailerService,
		ReceiptStorage: receiptStorage.NewMinioReceiptStorage(bootstrap.Minio, internalConfig.Minio.BucketName, bootstrap.Logger),
	}, nil
}

func memoryDependencies(bootstrap *config.Bootstrap) (*appDependencies, error) {
	profileStore := memory.NewProfileStore()
	keyValueStore := memory.NewKeyValueStore()

	seedFile := bootstrap.InternalConfig.App.MemorySeedFile
	if seedFile != "" {
		seed, err := memory.LoadSeedFile(context.Background(), seedFile, profileStore, keyValueStore)
		if err != nil {
			return nil, err
		}
		bootstrap.Logger.Info("Loaded memory seed",
			zap.String("seed_file", seedFile),
			zap.Int("doctors", len(seed.Doctors)),
			zap.Int("patients", len(seed.Patients)),
			zap.Int("sessions", len(seed.Sessions)),
		)
	} else {
		bootstrap.Logger.Warn("Memory storage started without a seed file; no sessions can authenticate",
			zap.String("storage_driver", constvars.StorageDriverMemory))
	}

	outbox := memory.NewOutbox(bootstrap.Logger)
	return &appDependencies{
		Appointments:   memory.NewAppointmentStore(),
		Slots:          memory.NewSlotCalendarStore(),
		Doctors:        profileStore.Doctors(),
		Patients:       profileStore.Patients(),
		Users:          profileStore.Users(),
		KeyValue:       keyValueStore,
		MailerService:  outbox,
		ReceiptStorage: outbox,
	}, nil
}
