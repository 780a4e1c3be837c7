package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/madnav/madnav/pkg/datastructure"
	"github.com/madnav/madnav/pkg/gazetteer"
	"github.com/madnav/madnav/pkg/kv"
	"github.com/madnav/madnav/pkg/osmparser"
	"github.com/madnav/madnav/pkg/server/rest"
	"github.com/madnav/madnav/pkg/server/rest/service"
	"github.com/madnav/madnav/pkg/snap"
)

var (
	listenAddr  = flag.String("listenaddr", ":5000", "server listen address")
	mapFile     = flag.String("f", "madrid.osm.pbf", "openstreetmap pbf file for the road network graph")
	addressFile = flag.String("addresses", "direcciones.csv", "street directory csv for address geocoding")
	dbDir       = flag.String("dbdir", "./madnav-db", "badger directory for the cached road graph")
)

func main() {
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbDir))
	if err != nil {
		log.Fatal(err)
	}
	kvDB := kv.NewKVDB(db)
	defer kvDB.Close()

	graph, err := loadOrParseGraph(kvDB, *mapFile)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("road graph ready: %d nodes, %d edges", graph.NumNodes(), graph.NumEdges())

	gz, err := gazetteer.LoadFromCSV(*addressFile)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("street directory ready: %d addresses", gz.Len())

	snapper := snap.NewNodeSnapper(graph)

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)

	r.Use(rest.PromeHttpMiddleware(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	navigatorSvc := service.NewNavigationService(graph, gz, snapper)
	rest.NavigatorRouter(r, navigatorSvc)

	fmt.Printf("\nserver started at %s\n", *listenAddr)

	log.Fatal(http.ListenAndServe(*listenAddr, r))
}

// loadOrParseGraph serves the graph from the badger cache when present,
// otherwise parses the pbf extract and fills the cache.
func loadOrParseGraph(kvDB *kv.KVDB, mapFile string) (*datastructure.Graph[int64], error) {
	graph, err := kvDB.LoadGraph()
	if err == nil {
		log.Printf("road graph loaded from cache")
		return graph, nil
	}
	if !errors.Is(err, kv.ErrGraphNotFound) {
		return nil, err
	}

	log.Printf("no cached road graph, parsing %s...", mapFile)
	parser := osmparser.NewOsmParser()
	graph, err = parser.Parse(mapFile)
	if err != nil {
		return nil, err
	}
	if err := kvDB.SaveGraph(graph); err != nil {
		return nil, err
	}
	return graph, nil
}
