package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/addrcheck/webhook-contract-tests/addresstests"
	"github.com/addrcheck/webhook-contract-tests/framework"
	"github.com/addrcheck/webhook-contract-tests/stubservice"

	"github.com/spf13/pflag"
)

const shutdownTimeout = 5 * time.Second

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := run(os.Args[1:]); err != nil {
		log.Println("error running address stub:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("address-stub", pflag.ContinueOnError)
	proxyAddr := fs.String("proxy-addr", ":3000", "listen address for the address proxy stand-in")
	webhookAddr := fs.String("webhook-addr", ":5678", "listen address for the validation webhook stand-in")
	webhookPath := fs.String("webhook-path", addresstests.DefaultWebhookPath, "path of the validation webhook")
	quiet := fs.Bool("quiet", false, "do not log each validation request")
	if err := fs.Parse(args); err != nil {
		return err
	}

	handlerLogger := framework.NullLogger()
	if !*quiet {
		handlerLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	servers := []*http.Server{
		{Addr: *proxyAddr, Handler: stubservice.NewProxyHandler(handlerLogger)},
		{Addr: *webhookAddr, Handler: stubservice.NewWebhookHandler(*webhookPath, handlerLogger)},
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, len(servers))
	for _, s := range servers {
		s := s
		go func() {
			serverErrors <- s.ListenAndServe()
		}()
	}
	log.Printf("address proxy stub listening on %s (GET/POST /health)", *proxyAddr)
	log.Printf("validation webhook stub listening on %s (POST %s)", *webhookAddr, *webhookPath)

	var result error
	select {
	case err := <-serverErrors:
		result = fmt.Errorf("server error: %w", err)
	case <-shutdown:
		log.Println("main: received shutdown signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownAll(ctx, servers); err != nil {
		log.Println("main: graceful shutdown did not complete:", err)
		if result == nil {
			result = err
		}
	}
	return result
}

// shutdownAll stops every server, including the ones after a failure, and returns the errors.
func shutdownAll(ctx context.Context, servers []*http.Server) error {
	var errs []error
	for _, s := range servers {
		if err := s.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down %s: %w", s.Addr, err))
		}
	}
	return errors.Join(errs...)
}
