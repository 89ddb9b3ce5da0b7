package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/account-closed/Ref39TopicAssistant/internal/handlers"
	"github.com/account-closed/Ref39TopicAssistant/internal/service"
	"github.com/account-closed/Ref39TopicAssistant/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Members   storage.MemberStore
	Tags      storage.TagStore
	Topics    storage.TopicStore
	Revisions storage.RevisionStore
	Index     service.TopicIndex
	Syncer    *service.Syncer
	// APIPSK guards /api routes; empty disables authentication.
	APIPSK string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	membersHandler := handlers.NewMembersHandler(deps.Members, deps.Revisions)
	tagsHandler := handlers.NewTagsHandler(deps.Tags, deps.Revisions, deps.Syncer)
	topicsHandler := handlers.NewTopicsHandler(deps.Topics, deps.Revisions, deps.Syncer)
	datastoreHandler := handlers.NewDatastoreHandler(deps.Members, deps.Tags, deps.Topics, deps.Revisions)
	searchHandler := handlers.NewSearchHandler(deps.Index, deps.Topics, deps.Revisions)

	// Health is reachable without the PSK so load balancers can probe.
	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(PSKAuth(deps.APIPSK))

		r.Get("/datastore", datastoreHandler.Get)
		r.Get("/datastore/revision", datastoreHandler.Revision)

		r.Get("/topics", topicsHandler.List)
		r.Post("/topics", topicsHandler.Create)
		r.Put("/topics/batch", topicsHandler.BatchUpdate)
		r.Get("/topics/{id}", topicsHandler.Get)
		r.Put("/topics/{id}", topicsHandler.Update)
		r.Delete("/topics/{id}", topicsHandler.Delete)

		r.Get("/members", membersHandler.List)
		r.Post("/members", membersHandler.Create)
		r.Get("/members/{id}", membersHandler.Get)
		r.Put("/members/{id}", membersHandler.Update)
		r.Delete("/members/{id}", membersHandler.Delete)

		r.Get("/tags", tagsHandler.List)
		r.Post("/tags", tagsHandler.Create)
		r.Get("/tags/{id}", tagsHandler.Get)
		r.Put("/tags/{id}", tagsHandler.Update)
		r.Delete("/tags/{id}", tagsHandler.Delete)

		r.Get("/search", searchHandler.Search)
	})

	return r
}
