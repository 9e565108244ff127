package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wayplan/backend/api/controllers"
	"github.com/wayplan/backend/api/middleware"
	"github.com/wayplan/backend/pkg/config"
	"github.com/wayplan/backend/pkg/enums"
	"github.com/wayplan/backend/pkg/logger"
	"github.com/wayplan/backend/pkg/metrics"
	"github.com/wayplan/backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface needs.
type RouterParams struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.APIMetrics

	Auth       *controllers.AuthController
	Users      *controllers.UsersController
	Trips      *controllers.TripsController
	Activities *controllers.ActivitiesController
	Geo        *controllers.GeoController
	Assist     *controllers.AssistController
	Health     *controllers.HealthController

	MembershipChecker middleware.MembershipChecker
	RateLimitStore    *redis.Client
}

// New assembles the chi router with the full middleware stack.
func New(params RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(params.Logger))
	r.Use(middleware.Logging(params.Logger, params.Metrics))
	r.Use(middleware.Recoverer(params.Logger))
	r.Use(middleware.CORS())

	r.Get("/ping", params.Health.Ping)
	r.Get("/health/live", params.Health.Live)
	r.Get("/health/ready", params.Health.Ready)
	if params.Metrics != nil {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			signupLimiter := params.authRateLimiter("signup",
				params.Config.AuthRateLimit.SignupWindow,
				params.Config.AuthRateLimit.SignupIPLimit,
				params.Config.AuthRateLimit.SignupEmailLimit)
			loginLimiter := params.authRateLimiter("login",
				params.Config.AuthRateLimit.LoginWindow,
				params.Config.AuthRateLimit.LoginIPLimit,
				params.Config.AuthRateLimit.LoginEmailLimit)

			r.With(signupLimiter).Post("/signup", params.Auth.Signup)
			r.With(loginLimiter).Post("/login", params.Auth.Login)
			r.With(loginLimiter).Post("/forgot-password", params.Auth.ForgotPassword)
			r.With(loginLimiter).Post("/reset-password", params.Auth.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(params.Config.JWT, params.Logger))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", params.Users.Me)
				r.Get("/{userId}", params.Users.Get)
				r.Patch("/{userId}", params.Users.Update)
				r.Delete("/{userId}", params.Users.Delete)
			})

			r.Route("/trips", func(r chi.Router) {
				r.Post("/", params.Trips.Create)
				r.Get("/", params.Trips.ListMine)
				r.Get("/memberships", params.Trips.MyMemberships)
				r.Get("/join-codes/{code}/validate", params.Trips.ValidateJoinCode)
				r.Get("/join-codes/{code}", params.Trips.ByJoinCode)

				r.Route("/{tripId}", func(r chi.Router) {
					r.Post("/join", params.Trips.Join)

					member := middleware.RequireTripRoles(params.MembershipChecker, params.Logger,
						enums.TripRoleCreator, enums.TripRoleUser)
					creator := middleware.RequireTripRoles(params.MembershipChecker, params.Logger,
						enums.TripRoleCreator)

					r.With(member).Get("/", params.Trips.Get)
					r.With(member).Get("/members", params.Trips.Members)
					r.With(member).Get("/activities", params.Activities.ListByTrip)
					r.With(creator).Delete("/", params.Trips.Delete)
				})
			})

			r.Route("/activities", func(r chi.Router) {
				r.Post("/", params.Activities.Create)
				r.Get("/{activityId}", params.Activities.Get)
				r.Patch("/{activityId}", params.Activities.Update)
				r.Delete("/{activityId}", params.Activities.Delete)
				r.Post("/{activityId}/votes", params.Activities.CastVote)
			})

			r.Route("/geo", func(r chi.Router) {
				r.Post("/geocode", params.Geo.Geocode)
				r.Post("/timezone", params.Geo.Timezone)
			})

			r.Route("/assist", func(r chi.Router) {
				r.Post("/suggestions", params.Assist.Suggestions)
				r.Post("/autofill", params.Assist.Autofill)
				r.Post("/itinerary", params.Assist.Itinerary)
				r.Post("/chat", params.Assist.Chat)
			})
		})
	})

	return r
}

// authRateLimiter returns a pass-through when no redis store is configured.
func (p RouterParams) authRateLimiter(name string, window time.Duration, ipLimit, emailLimit int) func(http.Handler) http.Handler {
	if p.RateLimitStore == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	policy := middleware.NewAuthRateLimitPolicy(name, window, ipLimit, emailLimit)
	return middleware.AuthRateLimit(policy, p.RateLimitStore, p.Logger)
}
