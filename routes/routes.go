package routes

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"winterfell/middlewares"
	"winterfell/models"
	"winterfell/services"
	"winterfell/utils"
)

const titleSuffix = "Winterfell University Alumni"

// deps is the handler dependency container. Everything is constructed once
// in main and injected here; nothing is attached per request. Event access
// goes through the service, which owns the repository.
type deps struct {
	users    models.UserRepository
	svc      *services.EventService
	sessions *utils.SessionStore
	inv      *utils.CacheInvalidator
}

func RegisterRoutes(
	server *gin.Engine,
	u models.UserRepository,
	svc *services.EventService,
	sessions *utils.SessionStore,
	rdb *redis.Client,
	inv *utils.CacheInvalidator,
) {
	d := &deps{users: u, svc: svc, sessions: sessions, inv: inv}

	server.Use(middlewares.LoadSession(sessions))

	// global per-IP limit
	globalLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     20,
		Burst:   40,
		IdleTTL: 3 * time.Minute,
	})
	server.Use(globalLimiter.Middleware(func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}))

	// stricter limit on the credential endpoints
	authLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     0.5,
		Burst:   2,
		IdleTTL: 10 * time.Minute,
	})

	// public pages
	server.GET("/", d.home)
	server.GET("/about", d.about)
	server.GET("/login", d.loginPage)
	server.GET("/register", d.registerPage)
	server.GET("/logout", d.logout)
	server.GET("/events/upcoming", d.upcomingEvents)

	server.POST("/users/register",
		authLimiter.Middleware(func(c *gin.Context) string { return "register:" + c.ClientIP() }),
		d.register,
	)
	server.POST("/users/login",
		authLimiter.Middleware(func(c *gin.Context) string { return "login:" + c.ClientIP() }),
		d.login,
	)

	// member pages: authenticated non-admin users, per-user limit + daily quota
	userLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     5,
		Burst:   10,
		IdleTTL: 10 * time.Minute,
	})
	member := server.Group("/")
	member.Use(middlewares.RequireAlumni)
	member.Use(userLimiter.Middleware(func(c *gin.Context) string {
		return "u:" + c.GetString("userId")
	}))
	member.Use(middlewares.Quota(rdb, middlewares.QuotaRule{
		Limit:  200,
		Window: 24 * time.Hour,
		KeyFn: func(c *gin.Context) string {
			uid := c.GetString("userId")
			if uid == "" {
				return ""
			}
			return "quota:user:" + uid + ":day:" + strconv.Itoa(time.Now().UTC().YearDay())
		},
	}))

	member.GET("/events/participate", d.participatePage)
	member.POST("/events/participate", d.participate)
	member.GET("/events/organize", d.organizePage)
	member.POST("/events/organize", d.organize)
	member.GET("/events/myevents", d.myEvents)
	member.GET("/events/categories", d.eventCategories)
	member.GET("/events/edit-event/:eventId", d.editEventPage)
	member.GET("/events/calendar/:eventId", d.eventCalendar)
	member.POST("/events/remove-participation", d.removeParticipation)
	member.POST("/events/cancel-event", d.cancelEvent)
	member.POST("/events/update-event", d.updateEvent)
	member.GET("/users/dashboard", d.dashboard)
	member.GET("/users/profile", d.profilePage)
	member.POST("/users/profile", d.updateProfile)

	// admin pages
	admin := server.Group("/admin")
	admin.Use(middlewares.RequireAdmin)
	admin.GET("/dashboard", d.adminDashboard)
	admin.GET("/manage-users", d.manageUsers)
	admin.GET("/add-user", d.addUserPage)
	admin.POST("/add-user", d.addUser)
	admin.GET("/edit-user/:userId", d.editUserPage)
	admin.POST("/edit-user/:userId", d.editUser)
	admin.GET("/delete-user/:userId", d.deleteUser)
	admin.GET("/manage-events", d.manageEvents)
	admin.GET("/add-event", d.addEventPage)
	admin.POST("/add-event", d.addEvent)
	admin.GET("/delete-event/:eventId", d.deleteEvent)
	admin.GET("/alumni-events", d.alumniEvents)
	admin.GET("/user-events/:userId", d.userEvents)
}
