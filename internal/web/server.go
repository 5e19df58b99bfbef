// Package web exposes the boundary contract of the reservation core as a
// small JSON API. It renders nothing; the form shell consumes these routes.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/slot-reserve/internal/app"
	"github.com/example/slot-reserve/internal/domain"
)

// BookingService is the engine surface the handlers need.
type BookingService interface {
	AvailableSlots(ctx context.Context, day *domain.Day) ([]domain.Slot, error)
	Reserve(ctx context.Context, in app.ReserveInput) (domain.ReserveResult, error)
	Order(ctx context.Context, in app.OrderInput) (domain.PickupOrder, error)
	Subscribe(ctx context.Context, email string) error
}

type Server struct {
	Svc BookingService
	Log *slog.Logger
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("/api/slots", s.handleSlots)
	mux.HandleFunc("/api/reservations", s.handleReserve)
	mux.HandleFunc("/api/orders", s.handleOrder)
	mux.HandleFunc("/api/subscribers", s.handleSubscribe)

	return mux
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv.ListenAndServe()
}
