package application

import (
	"sync"

	"github.com/hvacdesk/hv/internal/domain"
)

type SessionSource interface {
	Snapshot() domain.Session
	Subscribe(fn SessionListener) func()
}

// RouteGuard evaluates route policies against the live session.
type RouteGuard struct {
	sessions SessionSource
	routes   domain.RouteTable
}

func NewRouteGuard(sessions SessionSource, routes domain.RouteTable) *RouteGuard {
	return &RouteGuard{sessions: sessions, routes: routes}
}

func (g *RouteGuard) Decide(path string) domain.Decision {
	return g.routes.Decide(g.sessions.Snapshot(), path)
}

func (g *RouteGuard) Require(roles ...domain.RoleName) domain.Decision {
	return domain.Authorize(g.sessions.Snapshot(), domain.NewRoleSet(roles...))
}

func (g *RouteGuard) Resolve(path string) (domain.Resolution, error) {
	return g.routes.Resolve(g.sessions.Snapshot(), path)
}

// Watch calls fn with the decision for path now and after every session
// transition. Snapshots older than the last seen one are skipped. Calls to
// fn never overlap; transitions arriving while fn runs are coalesced and the
// newest one is delivered when it returns.
func (g *RouteGuard) Watch(path string, fn func(domain.Decision)) func() {
	var (
		mu         sync.Mutex
		revision   uint64
		started    bool
		pending    *domain.Session
		delivering bool
	)

	deliver := func(session domain.Session) {
		mu.Lock()
		if started && session.Revision < revision {
			mu.Unlock()
			return
		}
		started = true
		revision = session.Revision
		pending = &session
		if delivering {
			mu.Unlock()
			return
		}

		delivering = true
		for pending != nil {
			next := *pending
			pending = nil
			mu.Unlock()

			fn(g.routes.Decide(next, path))

			mu.Lock()
		}
		delivering = false
		mu.Unlock()
	}

	unsubscribe := g.sessions.Subscribe(deliver)
	deliver(g.sessions.Snapshot())

	return unsubscribe
}
