package desk

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hvacdesk/hv/internal/application"
	"github.com/hvacdesk/hv/internal/domain"
	"github.com/hvacdesk/hv/internal/ports"
)

const defaultWidth = 72

type Options struct {
	Catalog  ports.TranslationCatalog
	Language domain.Language
	// Width is the column Arabic output is right-aligned to.
	Width int
}

// Content is a renderable desk view.
type Content interface {
	render(ctx renderContext) string
}

type renderContext struct {
	catalog ports.TranslationCatalog
	lang    domain.Language
	width   int
	styles  styles
}

func newRenderContext(opts Options) renderContext {
	lang := opts.Language
	if !lang.Valid() {
		lang = domain.DefaultLanguage
	}
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}

	return renderContext{catalog: opts.Catalog, lang: lang, width: width, styles: newStyles()}
}

func (c renderContext) t(key string) string {
	if c.catalog != nil {
		if value, ok := c.catalog.Lookup(c.lang, key); ok {
			return value
		}
	}
	return key
}

func (c renderContext) align(block string) string {
	if c.lang.Direction() != "rtl" {
		return block
	}
	return lipgloss.NewStyle().Width(c.width).Align(lipgloss.Right).Render(block)
}

func (c renderContext) field(key string, value string) string {
	return c.styles.label.Render(c.t(key)+":") + " " + c.styles.detail.Render(value)
}

func (c renderContext) statusLabel(status domain.RequestStatus) string {
	key := status.TranslationKey()
	style, ok := c.styles.statusTag[key]
	if !ok {
		return c.styles.detail.Render(c.t(key))
	}
	return style.Render(c.t(key))
}

type SessionView struct {
	Session  domain.Session
	Language domain.Language
}

func (v SessionView) render(c renderContext) string {
	lines := []string{c.styles.title.Render(c.t("session"))}

	if !v.Session.IsAuthenticated() {
		if v.Session.Status == domain.SessionUnresolved {
			return lipgloss.JoinVertical(lipgloss.Left, append(lines, c.styles.empty.Render(c.t("loading")))...)
		}
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, c.styles.warning.Render(c.t("notSignedIn")))...)
	}

	identity := v.Session.Identity
	name := strings.TrimSpace(identity.FullName)
	if name == "" {
		name = identity.Username
	}
	lines = append(lines,
		c.styles.item.Render(fmt.Sprintf("%s %s", c.t("signedInAs"), name)),
		c.field("email", identity.Email),
		c.field("username", identity.Username),
		c.field("role", roleLabels(c, identity.Roles)),
	)
	if _, ok := identity.Roles.Home(); !ok {
		lines = append(lines, c.styles.warning.Render(c.t("noRole")))
	}
	if v.Language.Valid() {
		lines = append(lines, c.field("language", string(v.Language)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func roleLabels(c renderContext, roles domain.RoleSet) string {
	labels := make([]string, 0, len(roles))
	for _, role := range roles {
		if role.Valid() {
			labels = append(labels, c.t(strings.ToLower(string(role))))
			continue
		}
		labels = append(labels, string(role))
	}
	if len(labels) == 0 {
		return "-"
	}
	return strings.Join(labels, ", ")
}

type ServicesView struct {
	Services []domain.Service
}

func (v ServicesView) render(c renderContext) string {
	lines := []string{
		c.styles.title.Render(c.t("serviceList")),
		c.styles.header.Render(fmt.Sprintf("%s: %d", c.t("services"), len(v.Services))),
	}

	if len(v.Services) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, c.styles.empty.Render(c.t("noServices")))...)
	}

	for _, service := range v.Services {
		lines = append(lines, c.styles.section.Render(renderService(c, service)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderService(c renderContext, service domain.Service) string {
	state := c.styles.success.Render(c.t("active"))
	if !service.IsActive {
		state = c.styles.warning.Render(c.t("inactive"))
	}

	parts := []string{
		c.styles.item.Render(fmt.Sprintf("%s (%s)", service.Name(c.lang), service.Code)) + " " + state,
		c.field("basePrice", formatPrice(service.BasePrice)),
	}
	if description := strings.TrimSpace(service.Description(c.lang)); description != "" {
		parts = append(parts, c.styles.detail.Render(description))
	}
	if service.ID != "" {
		parts = append(parts, c.styles.header.Render(string(service.ID)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

type RequestsView struct {
	Role     domain.RoleName
	Requests []domain.ServiceRequest
}

func (v RequestsView) render(c renderContext) string {
	title := c.t("requests")
	if v.Role == domain.RoleCustomer {
		title = c.t("myRequests")
	}
	lines := []string{
		c.styles.title.Render(title),
		c.styles.header.Render(fmt.Sprintf("%s: %d", c.t("totalRequests"), len(v.Requests))),
	}

	if len(v.Requests) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, c.styles.empty.Render(c.t("noRequests")))...)
	}

	for _, request := range v.Requests {
		lines = append(lines, c.styles.section.Render(renderRequest(c, request)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRequest(c renderContext, request domain.ServiceRequest) string {
	parts := []string{
		c.styles.item.Render(fmt.Sprintf("#%s", domain.ShortID(string(request.ID)))) + " " + c.statusLabel(request.Status),
		c.field("requestId", string(request.ID)),
		c.field("acCount", strconv.Itoa(request.ACCount)),
		c.field("estimatedPrice", formatPrice(request.EstimatedPrice)),
	}
	if request.FinalPrice != nil {
		parts = append(parts, c.field("finalPrice", formatPrice(*request.FinalPrice)))
	}
	if request.Address != "" {
		parts = append(parts, c.field("address", request.Address))
	}
	if !request.PreferredDateTime.IsZero() {
		parts = append(parts, c.field("preferredDateTime", formatTime(request.PreferredDateTime)))
	}
	if request.EngineerID != "" {
		parts = append(parts, c.field("engineerId", string(request.EngineerID)))
	}
	if !request.CreatedAt.IsZero() {
		parts = append(parts, c.field("createdAt", formatTime(request.CreatedAt)))
	}
	if request.CompletedAt != nil {
		parts = append(parts, c.field("completedAt", formatTime(*request.CompletedAt)))
	}
	if request.Notes != "" {
		parts = append(parts, c.field("notes", request.Notes))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

type DashboardView struct {
	Dashboard application.Dashboard
}

func (v DashboardView) render(c renderContext) string {
	d := v.Dashboard
	lines := []string{
		c.styles.title.Render(fmt.Sprintf("%s: %s", c.t("dashboard"), c.t(strings.ToLower(string(d.Role))))),
	}

	if d.Role != domain.RoleEngineer {
		lines = append(lines, c.field("totalServices", strconv.Itoa(d.TotalServices)))
	}
	lines = append(lines, c.field("totalRequests", strconv.Itoa(d.TotalRequests)))
	if d.Role == domain.RoleAdmin {
		lines = append(lines, c.field("totalEngineers", strconv.Itoa(d.TotalEngineers)))
	}

	for _, status := range []domain.RequestStatus{
		domain.RequestPending,
		domain.RequestNotStarted,
		domain.RequestInProgress,
		domain.RequestCompleted,
		domain.RequestCancelled,
	} {
		if count := d.ByStatus[status]; count > 0 {
			lines = append(lines, c.statusLabel(status)+" "+c.styles.detail.Render(strconv.Itoa(count)))
		}
	}

	recent := []string{c.styles.title.Render(c.t("recentRequests"))}
	if len(d.Recent) == 0 {
		recent = append(recent, c.styles.empty.Render(c.t("noRequests")))
	}
	for _, request := range d.Recent {
		recent = append(recent, fmt.Sprintf("#%s %s %s",
			domain.ShortID(string(request.ID)),
			c.statusLabel(request.Status),
			c.styles.header.Render(formatTime(request.CreatedAt)),
		))
	}
	lines = append(lines, c.styles.section.Render(lipgloss.JoinVertical(lipgloss.Left, recent...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

type ConnectionView struct {
	Report domain.ConnectionReport
	Err    error
}

func (v ConnectionView) render(c renderContext) string {
	lines := []string{
		c.styles.title.Render(c.t("connectionTest")),
		c.field("backend", v.Report.BaseURL),
	}
	if v.Report.ProbeURL != "" {
		lines = append(lines, c.field("probe", v.Report.ProbeURL))
	}

	if v.Report.Reachable {
		lines = append(lines, c.styles.success.Render(fmt.Sprintf("%s (%d)", c.t("reachable"), v.Report.StatusCode)))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	state := c.t("unreachable")
	if v.Report.StatusCode != 0 {
		state = fmt.Sprintf("%s (%d)", state, v.Report.StatusCode)
	}
	lines = append(lines, c.styles.warning.Render(state))
	if v.Err != nil {
		lines = append(lines, c.styles.detail.Render(v.Err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

type ResolutionView struct {
	Resolution domain.Resolution
}

func (v ResolutionView) render(c renderContext) string {
	r := v.Resolution
	lines := []string{c.styles.item.Render(r.Path)}

	switch r.Decision.Outcome {
	case domain.OutcomeLoading:
		lines = append(lines, c.styles.empty.Render(c.t("loading")))
	case domain.OutcomeRender:
		lines = append(lines, c.styles.success.Render(string(r.Decision.Outcome)))
	}
	if r.Path == domain.RouteNoRole {
		lines = append(lines, c.styles.warning.Render(c.t("noRole")))
	}
	if len(r.Hops) > 1 {
		lines = append(lines, c.styles.header.Render(strings.Join(r.Hops, " -> ")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
