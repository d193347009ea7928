package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/miko1qq/colink-sub000/controllers"
	"github.com/miko1qq/colink-sub000/controllers/auth"
	"github.com/miko1qq/colink-sub000/controllers/students"
	"github.com/miko1qq/colink-sub000/middleware"
)

// StudentRoutes registers authentication and all student-facing endpoints on
// the given subrouter.
func StudentRoutes(api *mux.Router) {
	// Login/register: 60 per IP per 5 minutes
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// Session traffic: 120 reads / 60 writes per user per minute
	userLimiter := middleware.NewUserRateLimiter(120, 60, 60)
	// Conversation polling is chatty, give it its own generous IP budget
	messagePollLimiter := middleware.NewIPRateLimiter(500, 5*time.Minute)

	// auth runs first so the per-user limiter sees the injected user id
	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(userLimiter.Middleware(h))
	}
	student := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(userLimiter.Middleware(middleware.RequireStudent(h)))
	}

	// Register & Login
	api.Handle("/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/refresh", loginLimiter.Middleware(http.HandlerFunc(auth.RefreshHandler))).Methods(http.MethodPost)
	api.Handle("/logout", authed(auth.LogoutHandler)).Methods(http.MethodPost)
	api.Handle("/logout-all", authed(auth.LogoutAllHandler)).Methods(http.MethodPost)

	// Profile
	api.Handle("/me", authed(students.MeHandler)).Methods(http.MethodGet)
	api.Handle("/me", authed(students.UpdateProfileHandler)).Methods(http.MethodPatch)
	api.Handle("/me/avatar", authed(students.UploadAvatarHandler)).Methods(http.MethodPost)
	api.Handle("/me/progress", student(students.MyProgressHandler)).Methods(http.MethodGet)

	// Quest catalog & progress
	api.Handle("/quests", student(students.ListQuestsHandler)).Methods(http.MethodGet)
	api.Handle("/quests/{id}", student(students.GetQuestHandler)).Methods(http.MethodGet)
	api.Handle("/quests/{id}/start", student(students.StartQuestHandler)).Methods(http.MethodPost)
	api.Handle("/quests/{id}/complete", student(students.CompleteQuestHandler)).Methods(http.MethodPost)

	// Daily reward
	api.Handle("/daily-reward", student(students.DailyRewardStatusHandler)).Methods(http.MethodGet)
	api.Handle("/daily-reward/claim", student(students.ClaimDailyRewardHandler)).Methods(http.MethodPost)

	// Leaderboard
	api.Handle("/leaderboard", authed(controllers.LeaderboardHandler)).Methods(http.MethodGet)

	// Messaging (clients poll the conversation endpoint)
	api.Handle("/messages", authed(controllers.SendMessageHandler)).Methods(http.MethodPost)
	api.Handle("/messages/unread-count", authed(controllers.UnreadCountHandler)).Methods(http.MethodGet)
	api.Handle("/messages/{userID}", messagePollLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(controllers.ConversationHandler)))).Methods(http.MethodGet) // IP-keyed, may run before auth
	api.Handle("/messages/{userID}/read", authed(controllers.MarkConversationReadHandler)).Methods(http.MethodPost)
}
