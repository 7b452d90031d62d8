package utils

import (
	"github.com/Luismorlan/yatube/utils/dotenv"
	. "github.com/Luismorlan/yatube/utils/flag"
	. "github.com/Luismorlan/yatube/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

func datadogEnv() string {
	if dotenv.IsProdEnv() {
		return "production"
	}
	return "development"
}

// StartTracer starts the Datadog tracer for the current service.
func StartTracer() {
	tracer.Start(
		tracer.WithService(ServiceName),
		tracer.WithEnv(datadogEnv()),
	)
	Log.Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	tracer.Stop()
}
