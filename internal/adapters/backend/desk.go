package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hvacdesk/hv/internal/domain"
	"github.com/hvacdesk/hv/internal/ports"
)

var _ ports.DeskGateway = (*Client)(nil)

const preferredDateTimeLayout = "2006-01-02T15:04"

func (c *Client) ListServices(ctx context.Context) ([]domain.Service, error) {
	var out listOf[serviceDTO]
	if err := c.getJSON(ctx, "list services", "/Customer/service", &out); err != nil {
		return nil, err
	}

	services := make([]domain.Service, 0, len(out))
	for _, dto := range out {
		services = append(services, dto.toDomain())
	}
	return services, nil
}

func (c *Client) GetService(ctx context.Context, id domain.ServiceID) (domain.Service, error) {
	var out serviceDTO
	if err := c.getJSON(ctx, "get service", "/Admin/service/"+url.PathEscape(string(id)), &out); err != nil {
		return domain.Service{}, err
	}
	return out.toDomain(), nil
}

// CreateService returns the stored service, or the submitted one when the
// backend does not echo it.
func (c *Client) CreateService(ctx context.Context, service domain.Service) (domain.Service, error) {
	payload := serviceFromDomain(service)

	var out serviceDTO
	if err := c.postJSON(ctx, "create service", "/Admin/service", payload, &out); err != nil {
		if _, ok := domain.AsBackendError(err); ok {
			return domain.Service{}, err
		}
		// Non-JSON acknowledgements are still a success.
		return payload.toDomain(), nil
	}
	if out.ID == "" && out.Code == "" {
		return payload.toDomain(), nil
	}
	return out.toDomain(), nil
}

func (c *Client) ListRequests(ctx context.Context, role domain.RoleName) ([]domain.ServiceRequest, error) {
	path, err := requestsEndpoint(role)
	if err != nil {
		return nil, err
	}

	var out listOf[requestDTO]
	if err := c.getJSON(ctx, "list requests", path, &out); err != nil {
		return nil, err
	}

	requests := make([]domain.ServiceRequest, 0, len(out))
	for _, dto := range out {
		requests = append(requests, dto.toDomain())
	}
	return requests, nil
}

func (c *Client) CreateRequest(ctx context.Context, request domain.NewServiceRequest) (domain.ServiceRequest, error) {
	fields := []formField{
		{name: "serviceId", value: string(request.ServiceID)},
		{name: "acCount", value: strconv.Itoa(request.ACCount)},
	}
	if !request.PreferredDateTime.IsZero() {
		fields = append(fields, formField{name: "preferredDateTime", value: request.PreferredDateTime.Format(preferredDateTimeLayout)})
	}
	if address := strings.TrimSpace(request.Address); address != "" {
		fields = append(fields, formField{name: "address", value: address})
	}
	if notes := strings.TrimSpace(request.Notes); notes != "" {
		fields = append(fields, formField{name: "notes", value: notes})
	}

	var out requestDTO
	err := c.sendForm(ctx, "create request", http.MethodPost, "/Customer/request", fields, authStored, &out)
	if err != nil {
		if _, ok := domain.AsBackendError(err); ok {
			return domain.ServiceRequest{}, err
		}
		out = requestDTO{}
	}

	created := out.toDomain()
	if created.ServiceID == "" {
		created.ServiceID = request.ServiceID
		created.ACCount = request.ACCount
		created.PreferredDateTime = request.PreferredDateTime
		created.Address = request.Address
		created.Notes = request.Notes
	}
	if created.Status == "" {
		created.Status = domain.RequestPending
	}
	return created, nil
}

func (c *Client) UpdateRequestStatus(ctx context.Context, id domain.RequestID, status domain.RequestStatus) error {
	path := fmt.Sprintf("/Engineer/requests/%s/status", url.PathEscape(string(id)))
	return c.sendForm(ctx, "update request status", http.MethodPut, path, []formField{
		{name: "status", value: string(status)},
	}, authStored, nil)
}

func (c *Client) UpdateRequestPrice(ctx context.Context, id domain.RequestID, finalPrice float64) error {
	path := fmt.Sprintf("/Engineer/requests/%s/price", url.PathEscape(string(id)))
	return c.sendForm(ctx, "update request price", http.MethodPut, path, []formField{
		{name: "finalPrice", value: strconv.FormatFloat(finalPrice, 'f', -1, 64)},
	}, authStored, nil)
}

func (c *Client) AssignEngineer(ctx context.Context, id domain.RequestID, engineerID domain.UserID) error {
	path := "/Admin/AssignEngineer/" + url.PathEscape(string(id))
	return c.sendForm(ctx, "assign engineer", http.MethodPut, path, []formField{
		{name: "engineerId", value: string(engineerID)},
	}, authStored, nil)
}

func (c *Client) CreateReview(ctx context.Context, review domain.Review) error {
	return c.sendForm(ctx, "create review", http.MethodPost, "/Customer/Review", []formField{
		{name: "requestId", value: string(review.RequestID)},
		{name: "rating", value: strconv.Itoa(review.Rating)},
		{name: "comment", value: review.Comment},
	}, authStored, nil)
}

// CheckConnection probes the Swagger UI on the server root. A non-2xx answer
// is reported as unreachable without an error.
func (c *Client) CheckConnection(ctx context.Context) (domain.ConnectionReport, error) {
	probe := *c.baseURL
	probe.Path = strings.TrimSuffix(strings.TrimRight(probe.Path, "/"), "/api") + "/swagger/index.html"

	report := domain.ConnectionReport{BaseURL: c.baseURL.String(), ProbeURL: probe.String()}

	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probe.String(), nil)
	if err != nil {
		return report, fmt.Errorf("connection test: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, c.requestID())

	resp, err := c.http.Do(req)
	if err != nil {
		return report, classifyTransportError("connection test", err)
	}
	defer resp.Body.Close()

	report.StatusCode = resp.StatusCode
	report.Reachable = resp.StatusCode >= 200 && resp.StatusCode <= 299
	return report, nil
}

func (c *Client) probeTimeout() time.Duration {
	if c.http.Timeout > 0 {
		return c.http.Timeout
	}
	return defaultTimeout
}

func requestsEndpoint(role domain.RoleName) (string, error) {
	switch role {
	case domain.RoleAdmin:
		return "/Admin/serviceRequest", nil
	case domain.RoleCustomer:
		return "/Customer/Requests", nil
	case domain.RoleEngineer:
		return "/Engineer/serviceRequest", nil
	default:
		return "", fmt.Errorf("no request listing for role %q", role)
	}
}
