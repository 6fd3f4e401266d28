// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/yelpcamp/internal/app/graph"
	"github.com/dalemusser/yelpcamp/internal/app/system/mailer"
	"github.com/dalemusser/yelpcamp/internal/app/system/ratelimit"
	"github.com/dalemusser/yelpcamp/internal/app/system/tasks"
	"github.com/dalemusser/yelpcamp/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// ConnectDB fills the Mongo handles. Startup fills Services; the pointer is
// shared by the copies WAFFLE passes to BuildHandler and Shutdown.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Services *Services
}

// Services are the long-lived components built in Startup.
type Services struct {
	Resolver  *graph.Resolver
	Mail      *mailer.Dispatcher
	Queue     *workers.Queue
	Scheduler *tasks.Scheduler
	Limiter   *ratelimit.Limiter // set by BuildHandler
}
