package pkg

const (
	INF_WEIGHT float64 = 1e15

	// weight for an edge that carries neither an explicit length nor a
	// polyline to derive one from.
	DEFAULT_EDGE_WEIGHT float64 = 1.0

	// temporary-point connector search radius (meter) and how many times the
	// radius is doubled before the point is left isolated.
	DEFAULT_CONNECTION_RADIUS_METER float64 = 250.0
	TEMP_CONNECT_MAX_ATTEMPTS       int     = 3

	DEFAULT_ON_EDGE_TOLERANCE_METER float64 = 25.0

	ROUTE_CACHE_CAPACITY    = 1000
	ROUTE_CACHE_TTL_SECONDS = 3600
	DIJKSTRA_MEMO_CAPACITY  = 128
)

const (
	DEBUG = false
)
