package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/eduflow/eduflow-backend/internal/course"
	"github.com/eduflow/eduflow-backend/internal/enrollment"
	infra "github.com/eduflow/eduflow-backend/internal/infrastructure"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/driver"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/logging"
	"github.com/eduflow/eduflow-backend/internal/infrastructure/uuid"
	ihttp "github.com/eduflow/eduflow-backend/internal/interfaces/http"
	"github.com/eduflow/eduflow-backend/internal/review"
	"github.com/eduflow/eduflow-backend/internal/user"
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
		log.Fatalf("Failed to create DB connection: %s\n", err)
	}
	logger.Debug("Create db connection instance", zap.String("db.driver", option.Database.Driver),
		zap.String("db.schema", option.Database.Schema),
		zap.String("db.host", option.Database.Host),
	)

	rdb := driver.NewRedisClient(option.KVStore.Host, option.KVStore.Port, option.KVStore.Password)

	UUIDGenerator := uuid.NewNanoIDGenerator(option.Security.IDLength)

	UserRepo := user.NewUserRepository(dbConn, UUIDGenerator)
	UserUseCase := user.NewUserUseCase(UserRepo)

	CourseRepo := course.NewCourseRepository(dbConn)
	CourseUseCase := course.NewCourseUseCase(CourseRepo, UUIDGenerator, rdb, option.Catalog.CacheTTL)

	EnrollmentRepo := enrollment.NewEnrollmentRepository(dbConn)
	EnrollmentUseCase := enrollment.NewEnrollmentUseCase(EnrollmentRepo, CourseRepo, UUIDGenerator)

	ReviewRepo := review.NewReviewRepository(dbConn)
	ReviewUseCase := review.NewReviewUseCase(ReviewRepo, EnrollmentRepo, CourseRepo, UUIDGenerator)

	ihttp.Serve(dbConn, rdb, option,
		UserRepo, UserUseCase,
		CourseUseCase, EnrollmentUseCase, ReviewUseCase,
		logger)
}
