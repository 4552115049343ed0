package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fieldforge/servicedesk/pkg/audit"
	"github.com/fieldforge/servicedesk/pkg/auth"
	"github.com/fieldforge/servicedesk/pkg/gate"
	"github.com/fieldforge/servicedesk/pkg/membership"
	"github.com/fieldforge/servicedesk/pkg/middleware"
	"github.com/fieldforge/servicedesk/pkg/observability"
	"github.com/fieldforge/servicedesk/pkg/rbac"
	"github.com/fieldforge/servicedesk/pkg/tenant"
)

// Server is the HTTP surface of the service. Handlers stay thin: every
// authorization decision already happened in the middleware chain by the
// time a handler runs.
type Server struct {
	router *mux.Router

	sessions auth.SessionStore
	verifier membership.CredentialVerifier
	roles    *membership.RoleResolver
	tenants  tenant.Store
	audits   audit.Recorder
	logger   *observability.Logger
}

// Deps bundles everything the server needs.
type Deps struct {
	Sessions auth.SessionStore
	Verifier membership.CredentialVerifier
	Tenants  tenant.Store
	Resolver *tenant.Resolver
	Roles    *membership.RoleResolver
	Gate     *gate.Gate
	Checker  *rbac.Checker
	Audits   audit.Recorder
	Logger   *observability.Logger
	Metrics  *observability.Metrics
}

// NewServer assembles the router with the full middleware pipeline.
func NewServer(deps Deps) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		sessions: deps.Sessions,
		verifier: deps.Verifier,
		roles:    deps.Roles,
		tenants:  deps.Tenants,
		audits:   deps.Audits,
		logger:   deps.Logger,
	}

	access := middleware.NewAccessControl(
		deps.Tenants, deps.Resolver, deps.Roles, deps.Gate, deps.Checker,
		deps.Audits, deps.Logger, deps.Metrics,
	)

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RequestLogger(deps.Logger, deps.Metrics))
	s.router.Use(middleware.TenantContext(deps.Resolver, deps.Metrics))
	s.router.Use(middleware.Authentication(deps.Sessions, deps.Logger, deps.Metrics))
	s.router.Use(access.Handler)

	s.routes()
	return s
}

func (s *Server) routes() {
	// Session endpoints (public; see middleware.publicPaths).
	s.router.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	s.router.HandleFunc("/api/auth/logout", s.handleLogout).Methods(http.MethodPost)
	s.router.HandleFunc("/api/auth/session", s.handleSession).Methods(http.MethodGet)

	// Navigation for the current role.
	s.router.HandleFunc("/api/navigation", s.handleNavigation).Methods(http.MethodGet)

	// Page routes. Rendering is out of scope here; pages answer with their
	// route context so the pipeline is exercisable end to end.
	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	s.router.HandleFunc("/login", s.handleLoginPage).Methods(http.MethodGet)
	for _, path := range []string{
		"/dashboard", "/about", "/vehicles", "/vehicles/{id}",
		"/work-orders", "/work-orders/{id}",
		"/service-trackers", "/service-trackers/{id}",
		"/customers", "/customers/{id}",
		"/invoices", "/invoices/{id}", "/payments", "/reports",
		"/team", "/team/{id}", "/settings",
	} {
		s.router.HandleFunc(path, s.handlePage).Methods(http.MethodGet)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
