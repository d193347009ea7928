package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/miko1qq/colink-sub000/controllers/professors"
	"github.com/miko1qq/colink-sub000/middleware"
)

// ProfessorRoutes registers quest authoring, analytics and badge management.
// Every endpoint here goes through ProfessorAuthMiddleware, which checks the
// token role and that the account still exists.
func ProfessorRoutes(api *mux.Router) {
	professorLimiter := middleware.NewUserRateLimiter(120, 60, 60)

	// ProfessorAuthMiddleware validates the token itself, so it runs first and
	// the per-user limiter sees the injected user id
	professor := func(h http.HandlerFunc) http.Handler {
		return middleware.ProfessorAuthMiddleware(professorLimiter.Middleware(h))
	}

	// Quest authoring
	api.Handle("/professor/quests", professor(professors.ListOwnQuestsHandler)).Methods(http.MethodGet)
	api.Handle("/professor/quests", professor(professors.CreateQuestHandler)).Methods(http.MethodPost)
	api.Handle("/professor/quests/{id}", professor(professors.UpdateQuestHandler)).Methods(http.MethodPut)
	api.Handle("/professor/quests/{id}", professor(professors.DeleteQuestHandler)).Methods(http.MethodDelete)

	// Analytics
	api.Handle("/professor/analytics", professor(professors.AnalyticsHandler)).Methods(http.MethodGet)

	// Badge catalog & manual grants
	api.Handle("/badges", middleware.AuthMiddleware(professorLimiter.Middleware(http.HandlerFunc(professors.ListBadgesHandler)))).Methods(http.MethodGet)
	api.Handle("/professor/badges/grant", professor(professors.GrantBadgeHandler)).Methods(http.MethodPost)
}
