package http

import (
	"net/http"

	"courtside/internal/delivery/http/handler"
	"courtside/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router          *mux.Router
	authHandler     *handler.AuthHandler
	facilityHandler *handler.FacilityHandler
	courtHandler    *handler.CourtHandler
	bookingHandler  *handler.BookingHandler
	walletHandler   *handler.WalletHandler
	couponHandler   *handler.CouponHandler
	auditLogHandler *handler.AuditLogHandler
	authMiddleware  *middleware.AuthMiddleware
	corsMiddleware  *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	facilityHandler *handler.FacilityHandler,
	courtHandler *handler.CourtHandler,
	bookingHandler *handler.BookingHandler,
	walletHandler *handler.WalletHandler,
	couponHandler *handler.CouponHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:          mux.NewRouter(),
		authHandler:     authHandler,
		facilityHandler: facilityHandler,
		courtHandler:    courtHandler,
		bookingHandler:  bookingHandler,
		walletHandler:   walletHandler,
		couponHandler:   couponHandler,
		auditLogHandler: auditLogHandler,
		authMiddleware:  authMiddleware,
		corsMiddleware:  corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/register-owner", r.authHandler.RegisterOwner).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Public catalog: facilities, courts and availability
	api.HandleFunc("/facilities", r.facilityHandler.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/facilities/{id}", r.facilityHandler.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/courts", r.courtHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/courts/{id}", r.courtHandler.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/courts/{id}/schedule", r.courtHandler.GetDaySchedule).Methods(http.MethodGet)
	api.HandleFunc("/availability", r.bookingHandler.CheckAvailability).Methods(http.MethodGet)

	// Customer routes (any authenticated user books and pays)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.HandleFunc("/bookings", r.bookingHandler.CreateBooking).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", r.bookingHandler.GetMyBookings).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{id}/cancel", r.bookingHandler.CancelBooking).Methods(http.MethodPost)
	protected.HandleFunc("/wallet", r.walletHandler.GetBalance).Methods(http.MethodGet)
	protected.HandleFunc("/wallet/topup", r.walletHandler.TopUp).Methods(http.MethodPost)
	protected.HandleFunc("/wallet/transactions", r.walletHandler.GetTransactions).Methods(http.MethodGet)
	protected.HandleFunc("/coupons/validate", r.couponHandler.Validate).Methods(http.MethodPost)

	// Owner routes (facility owners and admins)
	owner := api.PathPrefix("/owner").Subrouter()
	owner.Use(r.authMiddleware.Authenticate)
	owner.Use(middleware.RequireAdminOrOwner)
	owner.HandleFunc("/facilities", r.facilityHandler.Create).Methods(http.MethodPost)
	owner.HandleFunc("/facilities", r.facilityHandler.GetMine).Methods(http.MethodGet)
	owner.HandleFunc("/facilities/{id}", r.facilityHandler.Update).Methods(http.MethodPut)
	owner.HandleFunc("/facilities/{id}", r.facilityHandler.Delete).Methods(http.MethodDelete)
	owner.HandleFunc("/courts", r.courtHandler.Create).Methods(http.MethodPost)
	owner.HandleFunc("/courts/{id}", r.courtHandler.Update).Methods(http.MethodPut)
	owner.HandleFunc("/courts/{id}", r.courtHandler.Delete).Methods(http.MethodDelete)
	owner.HandleFunc("/bookings", r.bookingHandler.GetOwnerBookings).Methods(http.MethodGet)
	owner.HandleFunc("/bookings/{id}/confirm", r.bookingHandler.ConfirmBooking).Methods(http.MethodPost)
	owner.HandleFunc("/bookings/{id}/reject", r.bookingHandler.RejectBooking).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/coupons", r.couponHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/coupons", r.couponHandler.GetAll).Methods(http.MethodGet)
	admin.HandleFunc("/coupons/{id}", r.couponHandler.GetByID).Methods(http.MethodGet)
	admin.HandleFunc("/coupons/{id}", r.couponHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/coupons/{id}", r.couponHandler.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
