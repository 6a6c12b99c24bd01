package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/hvacdesk/hv/internal/domain"
	"github.com/hvacdesk/hv/internal/ports"
	"github.com/sourcegraph/conc/pool"
)

const recentRequestsLimit = 5

// AccessError reports a guard decision that did not allow rendering.
type AccessError struct {
	Route    string
	Decision domain.Decision
}

func (e *AccessError) Error() string {
	switch e.Decision.Navigate.Kind {
	case domain.NavigateToLogin:
		return fmt.Sprintf("%s: %s, sign in with `hv login`", e.Route, errSessionNotAuthenticated)
	case domain.NavigateToHome:
		return fmt.Sprintf("%s: not available for your role", e.Route)
	}
	if e.Decision.Outcome == domain.OutcomeLoading {
		return fmt.Sprintf("%s: session is still loading", e.Route)
	}
	return fmt.Sprintf("%s: %s", e.Route, e.Decision)
}

type SessionAuthority interface {
	SessionSource
	Revalidate(ctx context.Context) domain.Session
}

type Dashboard struct {
	Role           domain.RoleName
	TotalServices  int
	TotalRequests  int
	TotalEngineers int
	ByStatus       map[domain.RequestStatus]int
	Recent         []domain.ServiceRequest
}

// DeskService backs the role dashboards and forms. Every operation is
// checked by the route guard before the backend is called.
type DeskService struct {
	sessions SessionAuthority
	guard    *RouteGuard
	desk     ports.DeskGateway
	logger   *slog.Logger
}

func NewDeskService(sessions SessionAuthority, guard *RouteGuard, desk ports.DeskGateway, logger *slog.Logger) *DeskService {
	if logger == nil {
		logger = slog.Default()
	}

	return &DeskService{
		sessions: sessions,
		guard:    guard,
		desk:     desk,
		logger:   logger.With("component", "desk_service"),
	}
}

func (s *DeskService) ListServices(ctx context.Context) ([]domain.Service, error) {
	if err := s.authorizeAny(domain.RouteAccount); err != nil {
		return nil, err
	}

	services, err := s.desk.ListServices(ctx)
	if err != nil {
		return nil, s.backendFailure(ctx, "list services", err)
	}
	return services, nil
}

func (s *DeskService) GetService(ctx context.Context, id domain.ServiceID) (domain.Service, error) {
	if err := s.authorize(domain.RouteAdminServices); err != nil {
		return domain.Service{}, err
	}

	service, err := s.desk.GetService(ctx, id)
	if err != nil {
		return domain.Service{}, s.backendFailure(ctx, "get service", err)
	}
	return service, nil
}

func (s *DeskService) CreateService(ctx context.Context, service domain.Service) (domain.Service, error) {
	if err := s.authorize(domain.RouteAdminServices); err != nil {
		return domain.Service{}, err
	}
	if err := service.Validate(); err != nil {
		return domain.Service{}, fmt.Errorf("invalid service: %w", err)
	}

	created, err := s.desk.CreateService(ctx, service)
	if err != nil {
		return domain.Service{}, s.backendFailure(ctx, "create service", err)
	}
	return created, nil
}

// ListRequests lists the requests visible to role. An empty role picks the
// session's home role.
func (s *DeskService) ListRequests(ctx context.Context, role domain.RoleName) ([]domain.ServiceRequest, error) {
	role, err := s.resolveRole(role)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(requestsRoute(role)); err != nil {
		return nil, err
	}

	requests, err := s.desk.ListRequests(ctx, role)
	if err != nil {
		return nil, s.backendFailure(ctx, "list requests", err)
	}
	return requests, nil
}

func (s *DeskService) CreateRequest(ctx context.Context, request domain.NewServiceRequest) (domain.ServiceRequest, error) {
	if err := s.authorize(domain.RouteCustomerRequests); err != nil {
		return domain.ServiceRequest{}, err
	}
	if err := request.Validate(); err != nil {
		return domain.ServiceRequest{}, fmt.Errorf("invalid request: %w", err)
	}

	created, err := s.desk.CreateRequest(ctx, request)
	if err != nil {
		return domain.ServiceRequest{}, s.backendFailure(ctx, "create request", err)
	}
	return created, nil
}

func (s *DeskService) UpdateRequestStatus(ctx context.Context, id domain.RequestID, status domain.RequestStatus) error {
	if err := s.authorize(domain.RouteEngineerRequests); err != nil {
		return err
	}

	if err := s.desk.UpdateRequestStatus(ctx, id, status); err != nil {
		return s.backendFailure(ctx, "update request status", err)
	}
	return nil
}

func (s *DeskService) UpdateRequestPrice(ctx context.Context, id domain.RequestID, finalPrice float64) error {
	if err := s.authorize(domain.RouteEngineerRequests); err != nil {
		return err
	}
	if finalPrice < 0 {
		return fmt.Errorf("final price must not be negative")
	}

	if err := s.desk.UpdateRequestPrice(ctx, id, finalPrice); err != nil {
		return s.backendFailure(ctx, "update request price", err)
	}
	return nil
}

func (s *DeskService) AssignEngineer(ctx context.Context, id domain.RequestID, engineerID domain.UserID) error {
	if err := s.authorize(domain.RouteAdminRequests); err != nil {
		return err
	}
	if engineerID == "" {
		return fmt.Errorf("engineer id is required")
	}

	if err := s.desk.AssignEngineer(ctx, id, engineerID); err != nil {
		return s.backendFailure(ctx, "assign engineer", err)
	}
	return nil
}

func (s *DeskService) CreateReview(ctx context.Context, review domain.Review) error {
	if err := s.authorize(domain.RouteCustomerReviews); err != nil {
		return err
	}
	if err := review.Validate(); err != nil {
		return fmt.Errorf("invalid review: %w", err)
	}

	if err := s.desk.CreateReview(ctx, review); err != nil {
		return s.backendFailure(ctx, "create review", err)
	}
	return nil
}

// Dashboard loads the landing dashboard of the session's home role. The
// service catalog and the request list are fetched concurrently.
func (s *DeskService) Dashboard(ctx context.Context) (Dashboard, error) {
	role, err := s.resolveRole("")
	if err != nil {
		return Dashboard{}, err
	}
	if err := s.authorize(role.LandingRoute()); err != nil {
		return Dashboard{}, err
	}

	var (
		services []domain.Service
		requests []domain.ServiceRequest
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	if role != domain.RoleEngineer {
		p.Go(func(ctx context.Context) error {
			listed, err := s.desk.ListServices(ctx)
			if err != nil {
				return fmt.Errorf("list services: %w", err)
			}
			services = listed
			return nil
		})
	}
	p.Go(func(ctx context.Context) error {
		listed, err := s.desk.ListRequests(ctx, role)
		if err != nil {
			return fmt.Errorf("list requests: %w", err)
		}
		requests = listed
		return nil
	})
	if err := p.Wait(); err != nil {
		return Dashboard{}, s.backendFailure(ctx, "load dashboard", err)
	}

	return buildDashboard(role, services, requests), nil
}

func (s *DeskService) CheckConnection(ctx context.Context) (domain.ConnectionReport, error) {
	return s.desk.CheckConnection(ctx)
}

func buildDashboard(role domain.RoleName, services []domain.Service, requests []domain.ServiceRequest) Dashboard {
	byStatus := make(map[domain.RequestStatus]int)
	for _, request := range requests {
		byStatus[request.Status]++
	}

	recent := make([]domain.ServiceRequest, len(requests))
	copy(recent, requests)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentRequestsLimit {
		recent = recent[:recentRequestsLimit]
	}

	return Dashboard{
		Role:          role,
		TotalServices: len(services),
		TotalRequests: len(requests),
		ByStatus:      byStatus,
		Recent:        recent,
	}
}

func (s *DeskService) authorize(route string) error {
	decision := s.guard.Decide(route)
	if decision.Outcome == domain.OutcomeRender {
		return nil
	}
	return &AccessError{Route: route, Decision: decision}
}

func (s *DeskService) authorizeAny(route string) error {
	decision := s.guard.Require()
	if decision.Outcome == domain.OutcomeRender {
		return nil
	}
	return &AccessError{Route: route, Decision: decision}
}

func (s *DeskService) resolveRole(role domain.RoleName) (domain.RoleName, error) {
	session := s.sessions.Snapshot()
	if !session.IsAuthenticated() {
		return "", &AccessError{Route: domain.RouteHome, Decision: domain.Authorize(session, nil)}
	}

	if role == "" {
		home, ok := session.Identity.Roles.Home()
		if !ok {
			return "", &AccessError{Route: domain.RouteNoRole, Decision: domain.Decision{Outcome: domain.OutcomeRedirect, Navigate: domain.ToRole("")}}
		}
		return home, nil
	}

	if !role.Valid() {
		return "", fmt.Errorf("unsupported role %q", role)
	}
	return role, nil
}

// backendFailure re-checks the session when the backend rejected the token.
func (s *DeskService) backendFailure(ctx context.Context, op string, err error) error {
	if backendErr, ok := domain.AsBackendError(err); ok && backendErr.Kind == domain.FailureRejected && backendErr.Status == http.StatusUnauthorized {
		s.logger.InfoContext(ctx, "backend rejected token, re-checking session", "operation", op)
		if session := s.sessions.Revalidate(ctx); !session.IsAuthenticated() {
			return fmt.Errorf("%s: session expired, sign in again with `hv login`: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func requestsRoute(role domain.RoleName) string {
	switch role {
	case domain.RoleAdmin:
		return domain.RouteAdminRequests
	case domain.RoleCustomer:
		return domain.RouteCustomerRequests
	default:
		return domain.RouteEngineerRequests
	}
}
