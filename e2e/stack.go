// Package e2e drives the full service stack through the gateway's public
// API. The auth and inventory services run in-process on test listeners,
// and the gateway talks to them over real HTTP.
package e2e

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"

	authhandler "ipvault/internal/auth/handler"
	authservice "ipvault/internal/auth/service"
	autheventstore "ipvault/internal/auth/store/event"
	revocationstore "ipvault/internal/auth/store/revocation"
	userstore "ipvault/internal/auth/store/user"
	"ipvault/internal/auth/token"
	"ipvault/internal/gateway/client"
	gatewayhandler "ipvault/internal/gateway/handler"
	gatewayservice "ipvault/internal/gateway/service"
	ipamhandler "ipvault/internal/ipam/handler"
	ipamservice "ipvault/internal/ipam/service"
	addressstore "ipvault/internal/ipam/store/address"
	ipameventstore "ipvault/internal/ipam/store/event"
	"ipvault/internal/seeder"
)

const (
	superuserName     = "root"
	superuserPassword = "root-password-123"
)

// Stack is the three services wired together over loopback HTTP.
type Stack struct {
	Gateway *httptest.Server

	auth      *httptest.Server
	inventory *httptest.Server
}

// StartStack boots auth, inventory, and the gateway on test listeners.
// Both backends use in-memory stores seeded the same way the binaries
// seed them at startup.
func StartStack() (*Stack, error) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := userstore.NewInMemory()
	revocations := revocationstore.NewInMemory()
	userEvents := autheventstore.NewInMemory()
	if err := seeder.SeedUserCatalog(ctx, userEvents, log); err != nil {
		return nil, fmt.Errorf("seed user catalog: %w", err)
	}
	if err := seeder.SeedSuperuser(ctx, users, superuserName, superuserPassword, log); err != nil {
		return nil, fmt.Errorf("seed superuser: %w", err)
	}

	tokens := token.NewService("e2e-secret", 15*time.Minute, 24*time.Hour, revocations)
	authSvc := authservice.New(users, revocations, userEvents, tokens, authservice.WithLogger(log))
	authRouter := chi.NewRouter()
	authhandler.New(authSvc, log).Register(authRouter)
	authServer := httptest.NewServer(authRouter)

	addresses := addressstore.NewInMemory()
	ipEvents := ipameventstore.NewInMemory()
	if err := seeder.SeedIPCatalog(ctx, ipEvents, log); err != nil {
		authServer.Close()
		return nil, fmt.Errorf("seed ip catalog: %w", err)
	}

	ipamSvc := ipamservice.New(addresses, ipEvents, ipamservice.WithLogger(log))
	ipamRouter := chi.NewRouter()
	ipamhandler.New(ipamSvc, log).Register(ipamRouter)
	inventoryServer := httptest.NewServer(ipamRouter)

	gatewaySvc := gatewayservice.New(
		client.NewAuth(authServer.URL),
		client.NewInventory(inventoryServer.URL),
		gatewayservice.WithLogger(log),
	)
	gatewayRouter := chi.NewRouter()
	gatewayhandler.New(gatewaySvc, log).Register(gatewayRouter)
	gatewayServer := httptest.NewServer(gatewayRouter)

	return &Stack{
		Gateway:   gatewayServer,
		auth:      authServer,
		inventory: inventoryServer,
	}, nil
}

// Close shuts down all three listeners.
func (s *Stack) Close() {
	s.Gateway.Close()
	s.inventory.Close()
	s.auth.Close()
}
