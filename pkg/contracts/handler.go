package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every HTTP surface (bookings, pricing,
// availability, property config) so the application can mount them all on
// one router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
