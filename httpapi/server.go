package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"

	"libraria/auth"
	"libraria/circulation/command/borrowbook"
	"libraria/circulation/command/returnbook"
	"libraria/circulation/query/listbooks"
	"libraria/membership"
	"libraria/reviews"
)

var json = jsoniter.ConfigFastest

const (
	logMsgResponseEncodingFailed = "response encoding failed"
	logMsgRequestFailed          = "request failed"
	logAttrError                 = "error"
	logAttrPath                  = "path"
	logAttrCode                  = "code"
)

// BorrowHandler executes the borrow workflow.
type BorrowHandler interface {
	Handle(ctx context.Context, command borrowbook.Command) (borrowbook.Result, error)
}

// ReturnHandler executes the return workflow.
type ReturnHandler interface {
	Handle(ctx context.Context, command returnbook.Command) (returnbook.Result, error)
}

// BookLister serves the book listing.
type BookLister interface {
	Handle(ctx context.Context) (listbooks.Books, error)
}

// MembershipService is the account side of the API: login, logout,
// registration.
type MembershipService interface {
	Login(ctx context.Context, email string, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Register(ctx context.Context, email string, name string, password string, role string) (membership.User, error)
}

// Logger interface for operational logging and warnings.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Server wires the route handlers to the business handlers behind them.
type Server struct {
	authenticator auth.Authenticator
	roles         auth.RoleChecker
	accounts      MembershipService
	borrow        BorrowHandler
	returns       ReturnHandler
	listing       BookLister
	reviews       reviews.Store
	logger        Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for the Server.
func WithLogger(logger Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server. The review store may be nil; the review
// routes then answer 404.
func NewServer(
	authenticator auth.Authenticator,
	roles auth.RoleChecker,
	accounts MembershipService,
	borrow BorrowHandler,
	returns ReturnHandler,
	listing BookLister,
	reviewStore reviews.Store,
	opts ...Option,
) *Server {
	s := &Server{
		authenticator: authenticator,
		roles:         roles,
		accounts:      accounts,
		borrow:        borrow,
		returns:       returns,
		listing:       listing,
		reviews:       reviewStore,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Router builds the complete route tree. Everything except login and
// the health probe sits behind the bearer-token gate; registration
// additionally requires the admin role.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/login", s.handleLogin)
	r.Get("/manage/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Post("/logout", s.handleLogout)
		r.Get("/books", s.handleListBooks)
		r.Post("/borrow", s.handleBorrow)
		r.Post("/return", s.handleReturn)

		if s.reviews != nil {
			r.Post("/review", s.handleAddReview)
			r.Get("/review/{bookID}", s.handleGetReviews)
		}

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Post("/register", s.handleRegister)
		})
	})

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if encodeErr := json.NewEncoder(w).Encode(body); encodeErr != nil {
		if s.logger != nil {
			s.logger.Warn(logMsgResponseEncodingFailed, logAttrError, encodeErr.Error())
		}
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusAndCode(err)

	if s.logger != nil && status >= http.StatusInternalServerError {
		s.logger.Error(logMsgRequestFailed,
			logAttrError, err.Error(),
			logAttrPath, r.URL.Path,
			logAttrCode, code)
	}

	s.writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}
