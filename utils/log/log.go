package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// global accessible logger
var Log *logrus.Logger

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	Log = logrus.New()
	Log.SetOutput(os.Stdout)
	if os.Getenv("QUILLFEED_ENV") == "prod" {
		Log.SetFormatter(&logrus.JSONFormatter{})
		Log.SetLevel(logrus.InfoLevel)
	} else {
		Log.SetLevel(logrus.DebugLevel)
	}
}
