package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"collabBack/internal/marketplace"
)

func (app *application) routes() (http.Handler, error) {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	authMiddleware := alice.New(app.JWTMiddleware)

	marketplaceMux := http.NewServeMux()
	if err := marketplace.RegisterMarketplaceRoutes(marketplaceMux, app.deps); err != nil {
		return nil, err
	}

	mux := pat.New()

	// Auth
	mux.Post("/api/v1/auth/register", http.HandlerFunc(app.userHandler.SignUp))
	mux.Post("/api/v1/auth/login", http.HandlerFunc(app.userHandler.SignIn))
	mux.Get("/api/v1/auth/me", authMiddleware.ThenFunc(app.userHandler.Me))

	// Profiles
	mux.Get("/api/v1/influencer/profile", authMiddleware.ThenFunc(app.profileHandler.GetInfluencerProfile))
	mux.Post("/api/v1/influencer/profile", authMiddleware.ThenFunc(app.profileHandler.SaveInfluencerProfile))
	mux.Get("/api/v1/brand/profile", authMiddleware.ThenFunc(app.profileHandler.GetBrandProfile))
	mux.Post("/api/v1/brand/profile", authMiddleware.ThenFunc(app.profileHandler.SaveBrandProfile))

	// Chat
	mux.Get("/api/v1/conversations", authMiddleware.ThenFunc(app.chatHandler.ListConversations))
	mux.Post("/api/v1/conversations", authMiddleware.ThenFunc(app.chatHandler.OpenConversation))
	mux.Get("/api/v1/conversations/:id/messages", authMiddleware.ThenFunc(app.messageHandler.GetMessages))
	mux.Post("/api/v1/conversations/:id/messages", authMiddleware.ThenFunc(app.messageHandler.SendMessage))

	// Push devices
	mux.Post("/api/v1/devices", authMiddleware.ThenFunc(app.fcmHandler.RegisterDevice))

	mux.Get("/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))

	// Campaigns, applications, submissions, payments, withdrawals and /ws/events.
	mux.NotFound = marketplaceMux

	return standardMiddleware.Then(mux), nil
}
