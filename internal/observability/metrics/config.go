package metrics

// Config carries the identity labels attached to every metric.
type Config struct {
	ServiceName string
	Environment string
}
