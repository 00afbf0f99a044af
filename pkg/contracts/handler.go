package contracts

import "github.com/julienschmidt/httprouter"

// Handler is anything that can mount its routes on the shared router.
// The app layer composes several of these behind one middleware stack.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
