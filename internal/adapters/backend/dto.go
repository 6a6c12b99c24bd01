package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hvacdesk/hv/internal/domain"
)

// flexString accepts JSON strings and numbers. The backend uses GUIDs for
// most identifiers but integers for some.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = flexString(raw)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	*s = flexString(number.String())
	return nil
}

// flexFloat accepts numbers and numeric strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*f = 0
		return nil
	}

	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse number %q: %w", raw, err)
	}
	*f = flexFloat(parsed)
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// flexTime accepts RFC 3339 and the zone-less layouts ASP.NET emits.
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = flexTime{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := parseTime(raw)
	if err != nil {
		return err
	}
	*t = flexTime(parsed)
	return nil
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", raw)
}

// listOf decodes a bare JSON array or the common {"$values": [...]} and
// {"data": [...]} envelopes.
type listOf[T any] []T

func (l *listOf[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var envelope struct {
		Values []T `json:"$values"`
		Data   []T `json:"data"`
		Items  []T `json:"items"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	switch {
	case envelope.Values != nil:
		*l = envelope.Values
	case envelope.Data != nil:
		*l = envelope.Data
	default:
		*l = envelope.Items
	}
	return nil
}

type tokenDTO struct {
	Token string `json:"token"`
}

type identityDTO struct {
	ID       flexString     `json:"id"`
	FullName string         `json:"fullName"`
	UserName string         `json:"userName"`
	Email    string         `json:"email"`
	Roles    listOf[string] `json:"roles"`
}

func (d identityDTO) toDomain() domain.Identity {
	roles := make([]domain.RoleName, 0, len(d.Roles))
	for _, role := range d.Roles {
		if trimmed := strings.TrimSpace(role); trimmed != "" {
			roles = append(roles, domain.RoleName(trimmed))
		}
	}

	return domain.Identity{
		ID:       domain.UserID(d.ID),
		FullName: d.FullName,
		Username: d.UserName,
		Email:    d.Email,
		Roles:    domain.NewRoleSet(roles...),
	}
}

type serviceDTO struct {
	ID            flexString `json:"id,omitempty"`
	Code          string     `json:"code"`
	NameEn        string     `json:"nameEn"`
	NameAr        string     `json:"nameAr"`
	DescriptionEn string     `json:"descriptionEn"`
	DescriptionAr string     `json:"descriptionAr"`
	BasePrice     flexFloat  `json:"basePrice"`
	IsActive      bool       `json:"isActive"`
}

func serviceFromDomain(service domain.Service) serviceDTO {
	return serviceDTO{
		Code:          strings.TrimSpace(service.Code),
		NameEn:        service.NameEn,
		NameAr:        service.NameAr,
		DescriptionEn: service.DescriptionEn,
		DescriptionAr: service.DescriptionAr,
		BasePrice:     flexFloat(service.BasePrice),
		IsActive:      service.IsActive,
	}
}

func (d serviceDTO) toDomain() domain.Service {
	return domain.Service{
		ID:            domain.ServiceID(d.ID),
		Code:          d.Code,
		NameEn:        d.NameEn,
		NameAr:        d.NameAr,
		DescriptionEn: d.DescriptionEn,
		DescriptionAr: d.DescriptionAr,
		BasePrice:     float64(d.BasePrice),
		IsActive:      d.IsActive,
	}
}

type requestDTO struct {
	ID                flexString `json:"id"`
	ServiceID         flexString `json:"serviceId"`
	CustomerID        flexString `json:"customerId"`
	EngineerID        flexString `json:"engineerId"`
	ACCount           int        `json:"acCount"`
	PreferredDateTime flexTime   `json:"preferredDateTime"`
	Address           string     `json:"address"`
	Notes             string     `json:"notes"`
	Status            string     `json:"status"`
	EstimatedPrice    flexFloat  `json:"estimatedPrice"`
	FinalPrice        *flexFloat `json:"finalPrice"`
	CreatedAt         flexTime   `json:"createdAt"`
	CompletedAt       *flexTime  `json:"completedAt"`
}

func (d requestDTO) toDomain() domain.ServiceRequest {
	status, err := domain.ParseRequestStatus(d.Status)
	if err != nil {
		status = domain.RequestStatus(strings.TrimSpace(d.Status))
	}

	request := domain.ServiceRequest{
		ID:                domain.RequestID(d.ID),
		ServiceID:         domain.ServiceID(d.ServiceID),
		CustomerID:        domain.UserID(d.CustomerID),
		EngineerID:        domain.UserID(d.EngineerID),
		ACCount:           d.ACCount,
		PreferredDateTime: time.Time(d.PreferredDateTime),
		Address:           d.Address,
		Notes:             d.Notes,
		Status:            status,
		EstimatedPrice:    float64(d.EstimatedPrice),
		CreatedAt:         time.Time(d.CreatedAt),
	}
	if d.FinalPrice != nil {
		price := float64(*d.FinalPrice)
		request.FinalPrice = &price
	}
	if d.CompletedAt != nil && !time.Time(*d.CompletedAt).IsZero() {
		completed := time.Time(*d.CompletedAt)
		request.CompletedAt = &completed
	}

	return request
}
