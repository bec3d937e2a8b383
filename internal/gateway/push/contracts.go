// Package push holds the outbound push-transport providers behind the
// notify.Provider port: a production AMQP provider, an in-memory dev provider
// and a retrying decorator.
package push

type counter interface {
	Inc()
}
