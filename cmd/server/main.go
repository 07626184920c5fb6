package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"

	"github.com/jrsteele09/go-fantasy-proxy/auth"
	"github.com/jrsteele09/go-fantasy-proxy/credentials"
	"github.com/jrsteele09/go-fantasy-proxy/espn"
	"github.com/jrsteele09/go-fantasy-proxy/internal/config"
	"github.com/jrsteele09/go-fantasy-proxy/ratelimit"
	"github.com/jrsteele09/go-fantasy-proxy/server"
	"github.com/jrsteele09/go-fantasy-proxy/session"
	"github.com/jrsteele09/go-fantasy-proxy/token"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	handler, err := buildServer(c)
	if err != nil {
		return fmt.Errorf("buildServer: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildServer(c config.Config) (*server.Server, error) {
	cipher, err := credentials.NewCipher(c.GetEncryptionKey())
	if err != nil {
		return nil, fmt.Errorf("credentials.NewCipher: %w", err)
	}

	tokens, err := token.NewIssuer(c.GetSigningSecret(), c.GetSessionTTL())
	if err != nil {
		return nil, fmt.Errorf("token.NewIssuer: %w", err)
	}

	authService, err := auth.New(auth.Deps{
		Sessions: session.NewStore(),
		Limiter:  ratelimit.NewLimiter(c.GetMaxFailedAttempts(), c.GetRateLimitWindow()),
		Cipher:   cipher,
		Tokens:   tokens,
		Upstream: espn.NewClient(c.GetUpstreamBaseURL(), c.GetUpstreamTimeout()),
	}, auth.WithProbeTimeout(c.GetAuthProbeTimeout()))
	if err != nil {
		return nil, fmt.Errorf("auth.New: %w", err)
	}

	return server.New(c, authService)
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
