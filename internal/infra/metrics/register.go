package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// namespace prefixes every metric name of the bot.
const namespace = "carrental"

var (
	mu         sync.Mutex
	collectors []prometheus.Collector
	defaultReg sync.Once
)

// register is called from init() of each metrics file.
func register(cs ...prometheus.Collector) {
	mu.Lock()
	defer mu.Unlock()
	collectors = append(collectors, cs...)
}

// Register adds every collector of the package to reg. Collectors already
// present in reg are skipped.
func Register(reg prometheus.Registerer) error {
	mu.Lock()
	defer mu.Unlock()
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// MustRegister registers the package collectors with the default registry
// exactly once and panics on conflicts.
func MustRegister() {
	defaultReg.Do(func() {
		if err := Register(prometheus.DefaultRegisterer); err != nil {
			panic(err)
		}
	})
}
