package usecases

import (
	"time"

	da "github.com/rithy-sen/phnomroute/pkg/datastructure"
)

// RouteCache is the shared result cache consumed by the routing service. Its
// implementation decides whether an external store sits behind the local one.
type RouteCache interface {
	Get(key string) (da.Route, bool)
	Set(key string, route da.Route, ttl time.Duration)
}
