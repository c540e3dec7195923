package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/servis/internal/cost"
	"github.com/erazemk/servis/internal/imagestore"
	"github.com/erazemk/servis/internal/imaging"
	"github.com/erazemk/servis/internal/model"
)

// Deps are the collaborators the API is built from.
type Deps struct {
	DB         *sql.DB
	JWTSecret  string
	AdminEmail string
	Checker    cost.Checker

	Images     imagestore.Store
	Processor  imaging.Processor
	MaxUpload  int64
	ImageFiles http.Handler // serves stored images under /images/ when set

	Vehicles VehicleLookup
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: d.DB, JWTSecret: d.JWTSecret, AdminEmail: d.AdminEmail}
	usersHandler := &UsersHandler{DB: d.DB}
	partsHandler := &PartsHandler{DB: d.DB}
	bookingsHandler := &BookingsHandler{DB: d.DB, Checker: d.Checker}
	imagesHandler := &ImagesHandler{DB: d.DB, Store: d.Images, Processor: d.Processor, MaxUpload: d.MaxUpload}
	vehiclesHandler := &VehiclesHandler{Vehicles: d.Vehicles}

	authMW := AuthMiddleware(d.JWTSecret, d.DB)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: signup and login.
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Parts: read (all roles), write (admin).
	mux.Handle("GET /api/parts", authMW(http.HandlerFunc(partsHandler.List)))
	mux.Handle("GET /api/parts/{id}", authMW(http.HandlerFunc(partsHandler.Get)))
	mux.Handle("POST /api/parts", authMW(requireAdmin(http.HandlerFunc(partsHandler.Create))))
	mux.Handle("DELETE /api/parts/{id}", authMW(requireAdmin(http.HandlerFunc(partsHandler.Delete))))

	// Bookings (all roles).
	mux.Handle("POST /api/bookings", authMW(http.HandlerFunc(bookingsHandler.Create)))
	mux.Handle("GET /api/bookings", authMW(http.HandlerFunc(bookingsHandler.List)))
	mux.Handle("GET /api/bookings/{registration}", authMW(http.HandlerFunc(bookingsHandler.ByRegistration)))

	// Service images (all roles).
	mux.Handle("POST /api/service-images", authMW(http.HandlerFunc(imagesHandler.Upload)))
	mux.Handle("GET /api/service-images", authMW(http.HandlerFunc(imagesHandler.List)))

	mux.Handle("POST /api/vehicles/lookup", authMW(http.HandlerFunc(vehiclesHandler.Lookup)))

	if d.ImageFiles != nil {
		mux.Handle("GET /images/", http.StripPrefix("/images/", d.ImageFiles))
	}

	return mux
}
