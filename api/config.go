package api

import (
	"sync"

	"github.com/rizkybor/sts-jurysystem-sub000/logging"
	"github.com/spf13/viper"
)

type Config struct {
	StorageConfig
	ServerConfig
	RealtimeConfig
}

type StorageConfig struct {
	MongoURI                  string
	Database                  string
	CollectionEvents          string
	CollectionTeamsRegistered string
	CollectionRaceSettings    string
	CollectionAssignments     string
	CollectionJudgeReports    string
	CollectionReportDetails   string
}

type ServerConfig struct {
	Port int
}

type RealtimeConfig struct {
	BrokerURL string
}

var settingsOnce sync.Once

func ReadConfig() *Config {
	// The connection string and broker URL come from the environment in
	// every deployed setup; the yaml values are local-dev fallbacks.
	bindEnv("storage.uri", "MONGODB_URI")
	bindEnv("realtime.url", "RT_URL")

	var conf = &Config{
		StorageConfig: StorageConfig{
			MongoURI:                  getString("storage.uri"),
			Database:                  getStringOrDefault("storage.database", "stsJurySystem"),
			CollectionEvents:          getStringOrDefault("storage.CollectionEvents", "stsEvents"),
			CollectionTeamsRegistered: getStringOrDefault("storage.CollectionTeamsRegistered", "teamsRegisteredCollection"),
			CollectionRaceSettings:    getStringOrDefault("storage.CollectionRaceSettings", "raceSettings"),
			CollectionAssignments:     getStringOrDefault("storage.CollectionAssignments", "userJudgeAssignments"),
			CollectionJudgeReports:    getStringOrDefault("storage.CollectionJudgeReports", "judgeReports"),
			CollectionReportDetails:   getStringOrDefault("storage.CollectionReportDetails", "judgeReportDetails"),
		},
		ServerConfig: ServerConfig{
			Port: getIntOrDefault("server.port", 8080),
		},
		RealtimeConfig: RealtimeConfig{
			BrokerURL: getStringOrDefault("realtime.url", ""),
		},
	}

	settingsOnce.Do(func() {
		logging.Log.Print("Reading settings!")
	})

	return conf
}

func bindEnv(key, env string) {
	if err := viper.BindEnv(key, env); err != nil {
		logging.Log.Errorf("failed to bind env %s: %v", env, err)
	}
}

func getString(name string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Fatalf("required environment variable '%s' is missing", name)
	return ""
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getStringOrDefault(name string, def string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Printf("found '%s' in viper", name)
		return v
	}
	logging.Log.Printf("could not find '%s' in viper! Returning default", name)
	return def
}
