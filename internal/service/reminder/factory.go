package reminder

import "github.com/hydracat/notification-scheduler/internal/domain"

// Factory builds coordinators that share infrastructure but differ in session.
type Factory struct {
	shared Dependencies
}

// NewFactory keeps deps for every coordinator it builds; deps.Session is ignored.
func NewFactory(deps Dependencies) *Factory {
	deps.Session = domain.Session{}
	return &Factory{shared: deps}
}

func (f *Factory) ForSession(session domain.Session) *Coordinator {
	deps := f.shared
	deps.Session = session
	return New(deps)
}
