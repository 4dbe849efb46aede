package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"inkwell/crud"
	"inkwell/domain"
	"inkwell/feed"
	"inkwell/logger"
)

// Server provides the http surface of the app: routing, request
// handling and middleware. It resolves the viewer identity and checks
// ownership before handing things over to the services.
type Server struct {
	router *mux.Router
	us     domain.UserService
	gs     domain.GroupService
	ps     domain.PostService
	cs     domain.CommentService
	fs     domain.FollowService
	is     domain.ImageService
	feed   *feed.Service

	tokenSecret string
}

// NewServer returns a new instance of the server, registers all routes
// and gives their handlers access to the services passed in.
func NewServer(isProd bool, tokenSecret, csrfKey string, services *crud.Services, feedService *feed.Service) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		us:          services.User,
		gs:          services.Group,
		ps:          services.Post,
		cs:          services.Comment,
		fs:          services.Follow,
		is:          services.Image,
		feed:        feedService,
		tokenSecret: tokenSecret,
	}

	s.registerFeedRoutes(s.router)
	s.registerPostRoutes(s.router)
	s.registerCommentRoutes(s.router)
	s.registerFollowRoutes(s.router)
	s.registerGroupRoutes(s.router)
	s.registerUserRoutes(s.router)
	s.registerImageRoutes(s.router)

	s.router.Use(logRequest, setContentTypeJSON, s.checkUser)
	if isProd {
		csrfMw := csrf.Protect([]byte(csrfKey), csrf.Secure(true), csrf.Path("/"))
		s.router.Use(csrfMw)
	}
	return s
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// The logRequest middleware logs every request with its duration.
func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.L.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// Router exposes the handler tree, mainly so tests can drive the
// server without a listener.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) error {
	logger.L.Info("listening", zap.Int("port", port))
	return http.ListenAndServe(":"+strconv.Itoa(port), s.router)
}
