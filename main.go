// @title STS Jury System API
// @version 1.0
// @description Backend API for recording judge penalties and publishing live results for whitewater rafting competitions

// @securityDefinitions.apikey AdminToken
// @in header
// @name x-admin-token

// @securityDefinitions.apikey JudgeEmail
// @in header
// @name x-judge-email
package main

import (
	_ "github.com/rizkybor/sts-jurysystem-sub000/docs"

	"github.com/joho/godotenv"
	"github.com/rizkybor/sts-jurysystem-sub000/api"
	"github.com/rizkybor/sts-jurysystem-sub000/logging"
	"github.com/spf13/viper"
)

func main() {
	logging.BootstrapLogger()

	// Local overrides live in .env; absence is fine
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logging.Log.Errorf("Failed to read config file: %v", err)
		panic("Failed to read config file: " + err.Error())
	}

	config := api.ReadConfig()

	service := api.NewServer(config)
	service.Start()
}
