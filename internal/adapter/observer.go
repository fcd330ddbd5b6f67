package adapter

// Observer hears about per-item failures that an adapter absorbed into a
// placeholder entry instead of failing the whole report.
type Observer interface {
	PartialDegradation(service string, err error)
}

// NopObserver discards every notification.
type NopObserver struct{}

func (NopObserver) PartialDegradation(string, error) {}
