package domain

import (
	"fmt"
	"strings"
	"time"
)

type ServiceID string
type RequestID string

type Service struct {
	ID            ServiceID
	Code          string
	NameEn        string
	NameAr        string
	DescriptionEn string
	DescriptionAr string
	BasePrice     float64
	IsActive      bool
}

// Name returns the localized service name, falling back to English.
func (s Service) Name(lang Language) string {
	if lang == LanguageArabic && strings.TrimSpace(s.NameAr) != "" {
		return s.NameAr
	}
	return s.NameEn
}

func (s Service) Description(lang Language) string {
	if lang == LanguageArabic && strings.TrimSpace(s.DescriptionAr) != "" {
		return s.DescriptionAr
	}
	return s.DescriptionEn
}

func (s Service) Validate() error {
	if strings.TrimSpace(s.Code) == "" {
		return fmt.Errorf("code is required")
	}
	if strings.TrimSpace(s.NameEn) == "" && strings.TrimSpace(s.NameAr) == "" {
		return fmt.Errorf("name is required")
	}
	if s.BasePrice < 0 {
		return fmt.Errorf("base price must not be negative")
	}
	return nil
}

type RequestStatus string

const (
	RequestPending    RequestStatus = "Pending"
	RequestNotStarted RequestStatus = "Not Started"
	RequestInProgress RequestStatus = "In Progress"
	RequestCompleted  RequestStatus = "Completed"
	RequestCancelled  RequestStatus = "Cancelled"
)

func ParseRequestStatus(raw string) (RequestStatus, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(raw)), " "))
	for _, status := range []RequestStatus{RequestPending, RequestNotStarted, RequestInProgress, RequestCompleted, RequestCancelled} {
		if strings.ToLower(string(status)) == normalized {
			return status, nil
		}
	}
	return "", fmt.Errorf("unsupported request status %q", raw)
}

// TranslationKey is the dictionary key used to label the status.
func (s RequestStatus) TranslationKey() string {
	switch s {
	case RequestPending:
		return "pending"
	case RequestNotStarted:
		return "notStarted"
	case RequestInProgress:
		return "inProgress"
	case RequestCompleted:
		return "completed"
	case RequestCancelled:
		return "cancelled"
	default:
		return string(s)
	}
}

type ServiceRequest struct {
	ID                RequestID
	ServiceID         ServiceID
	CustomerID        UserID
	EngineerID        UserID
	ACCount           int
	PreferredDateTime time.Time
	Address           string
	Notes             string
	Status            RequestStatus
	EstimatedPrice    float64
	FinalPrice        *float64
	CreatedAt         time.Time
	CompletedAt       *time.Time
}

type NewServiceRequest struct {
	ServiceID         ServiceID
	ACCount           int
	PreferredDateTime time.Time
	Address           string
	Notes             string
}

func (r NewServiceRequest) Validate() error {
	if strings.TrimSpace(string(r.ServiceID)) == "" {
		return fmt.Errorf("service id is required")
	}
	if r.ACCount <= 0 {
		return fmt.Errorf("ac count must be positive")
	}
	return nil
}

type Review struct {
	RequestID RequestID
	Rating    int
	Comment   string
}

func (r Review) Validate() error {
	if strings.TrimSpace(string(r.RequestID)) == "" {
		return fmt.Errorf("request id is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return nil
}

// ShortID truncates opaque identifiers for tabular display.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

type ConnectionReport struct {
	BaseURL    string
	ProbeURL   string
	Reachable  bool
	StatusCode int
}
