// Command boundary.report runs the decision-boundary visualization
// service: upload labelled 2D datasets, then fetch rendered boundary
// plots, grids, or interactive charts over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/mlviz/boundary.report/internal/store"
	"github.com/mlviz/boundary.report/internal/version"
	"github.com/mlviz/boundary.report/internal/web"
)

var (
	listen = flag.String("listen", ":8080", "Listen address")
	dbFile = flag.String("db", "boundary.db", "Path to the sqlite database")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	log.Printf("boundary.report %s (%s)", version.Version, version.GitSHA)

	db, err := store.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.MigrateUp(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ws := web.NewWebServer(web.WebServerConfig{
		Address: *listen,
		DB:      db,
	})

	if err := ws.Start(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}

	log.Printf("Graceful shutdown complete")
}
