package api

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizkybor/sts-jurysystem-sub000/api/controllers"
	"github.com/rizkybor/sts-jurysystem-sub000/api/transport"
	"github.com/rizkybor/sts-jurysystem-sub000/logging"
	"github.com/rizkybor/sts-jurysystem-sub000/realtime"
	"github.com/rizkybor/sts-jurysystem-sub000/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	r := transport.NewRouter(gin.DebugMode)

	// Create storage. The client is connected once here and handed to every
	// store; the driver pool takes care of idempotent acquisition.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.config.MongoURI))
	if err != nil {
		logging.Log.Errorf("failed to connect to mongo: %v", err)
		panic("failed to connect to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logging.Log.Errorf("failed to ping mongo: %v", err)
		panic("failed to ping mongo")
	}

	db := client.Database(s.config.Database)

	teamStorage := &storage.MongoTeamStorage{
		Collection: db.Collection(s.config.CollectionTeamsRegistered),
	}
	eventStorage := &storage.MongoEventStorage{
		Collection: db.Collection(s.config.CollectionEvents),
	}
	settingStorage := &storage.MongoRaceSettingStorage{
		Collection: db.Collection(s.config.CollectionRaceSettings),
	}
	assignmentStorage := &storage.MongoAssignmentStorage{
		Collection: db.Collection(s.config.CollectionAssignments),
	}
	reportStorage := &storage.MongoJudgeReportStorage{
		Reports: db.Collection(s.config.CollectionJudgeReports),
		Details: db.Collection(s.config.CollectionReportDetails),
	}

	notifier := realtime.NewNotifier(s.config.BrokerURL)

	// Register controllers
	slalomController := controllers.NewSlalomController(teamStorage, settingStorage, assignmentStorage, reportStorage, notifier)
	slalomController.RegisterRoutes(r)
	drrController := controllers.NewDRRController(teamStorage, settingStorage, assignmentStorage, reportStorage, notifier)
	drrController.RegisterRoutes(r)
	reportController := controllers.NewJudgeReportController(teamStorage, settingStorage, assignmentStorage, reportStorage, notifier)
	reportController.RegisterRoutes(r)
	eventController := controllers.NewEventController(eventStorage, teamStorage)
	eventController.RegisterRoutes(r)
	assignmentController := controllers.NewAssignmentController(assignmentStorage)
	assignmentController.RegisterRoutes(r)
	adminController := controllers.NewAdminController(eventStorage, teamStorage, settingStorage, assignmentStorage)
	adminController.RegisterRoutes(r)

	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", s.config.Port))
	if err := r.Run(fmt.Sprintf(":%d", s.config.Port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
