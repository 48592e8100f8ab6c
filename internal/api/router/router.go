package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/botfleet/console/internal/http/handlers"
	httpmiddleware "github.com/botfleet/console/internal/http/middleware"
	"github.com/botfleet/console/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger *logging.Logger

	Session   *handlers.SessionHandler
	Campaigns *handlers.CampaignHandler
	Configs   *handlers.ConfigHandler
	Contacts  *handlers.ContactsHandler
	Dashboard *handlers.DashboardHandler

	// WSHandler serves the live event socket; optional.
	WSHandler http.HandlerFunc

	MetricsHandler     http.Handler
	AuthSecret         string
	CORSAllowedOrigins []string
}

// New creates a chi router with all console routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.WSHandler != nil {
			public.Get("/ws", cfg.WSHandler)
		}
	})

	// Authenticated console API.
	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.Auth(cfg.AuthSecret))

		api.Route("/session", func(s chi.Router) {
			s.Get("/", cfg.Session.State)
			s.Post("/refresh", cfg.Session.RefreshBots)
			s.Put("/bot", cfg.Session.SelectBot)
			s.Delete("/bot", cfg.Session.DeselectBot)
			s.Put("/view", cfg.Session.ChangeView)
			s.Post("/logout", cfg.Session.Logout)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.RequireAdmin)
			admin.Get("/bots", cfg.Session.AllBots)
		})

		api.Route("/bots/{botID}", func(bot chi.Router) {
			bot.Get("/dashboard", cfg.Dashboard.Stats)

			bot.Get("/contacts", cfg.Contacts.List)
			bot.Post("/contacts/sync", cfg.Contacts.Sync)
			bot.Post("/contacts/import", cfg.Contacts.Import)

			bot.Get("/queue", cfg.Campaigns.Queue)

			bot.Route("/notification-configs", func(nc chi.Router) {
				nc.Get("/", cfg.Configs.List)
				nc.Post("/", cfg.Configs.Save)
				nc.Post("/{configID}/toggle", cfg.Configs.Toggle)
				nc.Post("/{configID}/delete", cfg.Configs.RequestDelete)
				nc.Post("/delete/confirm", cfg.Configs.ConfirmDelete)
				nc.Post("/delete/cancel", cfg.Configs.CancelDelete)
			})

			bot.Route("/campaigns", func(c chi.Router) {
				c.Get("/", cfg.Campaigns.Overview)
				c.Post("/refresh", cfg.Campaigns.Refresh)
				c.Post("/", cfg.Campaigns.Create)
				c.Put("/subview", cfg.Campaigns.SetSubView)

				c.Post("/templates/sync", cfg.Campaigns.SyncTemplates)
				c.Put("/templates/{templateID}/parameters", cfg.Campaigns.SaveTemplateDefaults)

				c.Post("/execute/confirm", cfg.Campaigns.ConfirmExecute)
				c.Post("/execute/cancel", cfg.Campaigns.CancelExecute)
				c.Post("/delete/confirm", cfg.Campaigns.ConfirmDelete)
				c.Post("/delete/cancel", cfg.Campaigns.CancelDelete)

				c.Route("/{campaignID}", func(cc chi.Router) {
					cc.Get("/", cfg.Campaigns.Open)
					cc.Put("/name", cfg.Campaigns.Rename)
					cc.Get("/candidates", cfg.Campaigns.Candidates)
					cc.Post("/contacts", cfg.Campaigns.AddContacts)
					cc.Put("/parameters", cfg.Campaigns.SaveParameters)
					cc.Post("/execute", cfg.Campaigns.RequestExecute)
					cc.Post("/delete", cfg.Campaigns.RequestDelete)
				})
			})
		})
	})

	return r
}
