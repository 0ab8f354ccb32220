package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

func BootstrapLogger() {
	Log = &logrus.Logger{
		Formatter: &logrus.TextFormatter{
			DisableColors: false,
			FullTimestamp: false,
		},
		Level: logrus.DebugLevel,
	}

	Log.SetReportCaller(true)
	Log.Out = os.Stdout
}
