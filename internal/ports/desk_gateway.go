package ports

import (
	"context"

	"github.com/hvacdesk/hv/internal/domain"
)

type ServiceCatalog interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
	GetService(ctx context.Context, id domain.ServiceID) (domain.Service, error)
	CreateService(ctx context.Context, service domain.Service) (domain.Service, error)
}

type RequestGateway interface {
	ListRequests(ctx context.Context, role domain.RoleName) ([]domain.ServiceRequest, error)
	CreateRequest(ctx context.Context, request domain.NewServiceRequest) (domain.ServiceRequest, error)
	UpdateRequestStatus(ctx context.Context, id domain.RequestID, status domain.RequestStatus) error
	UpdateRequestPrice(ctx context.Context, id domain.RequestID, finalPrice float64) error
	AssignEngineer(ctx context.Context, id domain.RequestID, engineerID domain.UserID) error
	CreateReview(ctx context.Context, review domain.Review) error
}

type ConnectionProbe interface {
	CheckConnection(ctx context.Context) (domain.ConnectionReport, error)
}

type DeskGateway interface {
	ServiceCatalog
	RequestGateway
	ConnectionProbe
}
