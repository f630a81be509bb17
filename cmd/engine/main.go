package main

import (
	"context"
	"flag"
	"strconv"
	"strings"
	"time"

	"github.com/rithy-sen/phnomroute/pkg"
	"github.com/rithy-sen/phnomroute/pkg/cache"
	"github.com/rithy-sen/phnomroute/pkg/http"
	"github.com/rithy-sen/phnomroute/pkg/http/usecases"
	"github.com/rithy-sen/phnomroute/pkg/loader"
	"github.com/rithy-sen/phnomroute/pkg/logger"
	"github.com/rithy-sen/phnomroute/pkg/spatialindex"
	"github.com/rithy-sen/phnomroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	graphPath        = flag.String("graph", "./data/phnom_penh.json", "node-link JSON graph snapshot")
	connectionRadius = flag.Float64("connection_radius", pkg.DEFAULT_CONNECTION_RADIUS_METER,
		"temporary-point connector search radius in meter")
	useRateLimit = flag.Bool("rate_limit", false, "enable request rate limiting")
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	if err := util.ReadConfig(); err != nil {
		log.Warn("no config file found, using defaults", zap.Error(err))
	}
	viper.SetDefault("ROUTE_CACHE_CAPACITY", pkg.ROUTE_CACHE_CAPACITY)
	viper.SetDefault("ROUTE_CACHE_TTL_SECONDS", pkg.ROUTE_CACHE_TTL_SECONDS)

	graph, err := loader.FromFile(*graphPath)
	if err != nil {
		log.Fatal("failed to load graph snapshot", zap.String("path", *graphPath), zap.Error(err))
	}
	log.Info("graph snapshot loaded", zap.String("id", graph.ID()),
		zap.Int("nodes", graph.NumNodes()), zap.Int("edges", graph.NumEdges()),
		zap.Bool("directed", graph.Directed()))

	rtree := spatialindex.NewRtree()
	rtree.Build(graph, pkg.DEFAULT_ON_EDGE_TOLERANCE_METER, log)

	routeCache := cache.NewTiered(
		cache.NewRouteCache(viper.GetInt("ROUTE_CACHE_CAPACITY"), log), nil, log)
	cacheTTL := time.Duration(viper.GetInt("ROUTE_CACHE_TTL_SECONDS")) * time.Second

	routingService := usecases.NewRoutingService(log, graph, rtree, routeCache,
		*connectionRadius, cacheTTL)

	if pairs := warmPairsFromConfig(log); len(pairs) > 0 {
		go routingService.WarmCache(pairs, 4)
	}

	api := http.NewServer(log)
	ctx, cleanup := newContext()
	if _, err := api.Use(ctx, log, *useRateLimit, routingService); err != nil {
		log.Fatal("failed to start API server", zap.Error(err))
	}

	signal := http.GracefulShutdown()

	log.Info("Routing Engine Server Stopped", zap.String("signal", signal.String()))
	cleanup()
}

// warmPairsFromConfig parses CACHE_WARM_PAIRS entries of the form
// "sLat,sLon,dLat,dLon".
func warmPairsFromConfig(log *zap.Logger) []usecases.CoordPair {
	raw := viper.GetStringSlice("CACHE_WARM_PAIRS")
	pairs := make([]usecases.CoordPair, 0, len(raw))
	for _, entry := range raw {
		parts := strings.Split(entry, ",")
		if len(parts) != 4 {
			log.Warn("skipping malformed cache warm pair", zap.String("entry", entry))
			continue
		}
		vals := make([]float64, 4)
		ok := true
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			log.Warn("skipping malformed cache warm pair", zap.String("entry", entry))
			continue
		}
		pairs = append(pairs, usecases.CoordPair{SLat: vals[0], SLon: vals[1], DLat: vals[2], DLon: vals[3]})
	}
	return pairs
}

func newContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	return ctx, func() {
		cancel()
	}
}
