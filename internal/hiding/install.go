package hiding

import (
	"sync"

	"github.com/bethropolis/veil/internal/event"
	"github.com/bethropolis/veil/internal/logger"
	"github.com/bethropolis/veil/internal/view"
)

// ServiceName is the key an installed Manager is registered under in its view.
const ServiceName = "hiding"

// Install creates a manager for the view's document, registers it as a view
// service and puts its generator first in the view. When events is non-nil
// the manager follows document edits dispatched there. The returned func
// undoes all of it; calling it more than once is a no-op.
func Install(v *view.View, events *event.Manager) (*Manager, func(), error) {
	if v == nil {
		return nil, nil, ErrInvalidView
	}
	m, err := NewManager(v.Document())
	if err != nil {
		return nil, nil, err
	}
	g := NewElementGenerator(m)

	if err := v.AddService(ServiceName, m); err != nil {
		return nil, nil, err
	}
	// Hiding must see text before any other generator.
	if err := v.InsertGenerator(0, g); err != nil {
		v.RemoveService(ServiceName)
		return nil, nil, err
	}
	stop := m.Observe(events)
	logger.DebugTagf("hiding", "Installed manager on view %d", v.ID())

	var once sync.Once
	teardown := func() {
		once.Do(func() {
			m.Clear()
			v.RemoveGenerator(g)
			v.RemoveService(ServiceName)
			stop()
			logger.DebugTagf("hiding", "Uninstalled manager from view %d", v.ID())
		})
	}
	return m, teardown, nil
}

// FromView returns the manager installed on v.
func FromView(v *view.View) (*Manager, error) {
	if v == nil {
		return nil, ErrInvalidView
	}
	svc, ok := v.Service(ServiceName)
	if !ok {
		return nil, ErrNotInstalled
	}
	m, ok := svc.(*Manager)
	if !ok {
		return nil, ErrNotInstalled
	}
	return m, nil
}
