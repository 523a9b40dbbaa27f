package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pratham82/real-time-notes/internal/config"
	"github.com/Pratham82/real-time-notes/internal/controller"
	"github.com/Pratham82/real-time-notes/internal/lan"
	"github.com/Pratham82/real-time-notes/internal/state"
	"github.com/Pratham82/real-time-notes/internal/store"
	strokesync "github.com/Pratham82/real-time-notes/internal/sync"
	"github.com/Pratham82/real-time-notes/internal/ui"
)

func main() {
	serve := flag.Bool("serve", false, "host a board: run the store service and open a canvas against it")
	headless := flag.Bool("headless", false, "with -serve, run the store service without a canvas window")
	addr := flag.String("addr", "", "store address host:port to join; empty uses the config or mDNS discovery")
	cfgPath := flag.String("config", "", "config file path")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if *serve {
		runHost(cfg, *headless)
		return
	}
	runJoin(cfg, *addr)
}

// runHost starts the store service, advertises it on the LAN, and (unless
// headless) opens a canvas against the local service.
func runHost(cfg config.Config, headless bool) {
	log.Println("Starting as HOST")

	backend, err := store.OpenBackend(cfg.DBPath)
	if err != nil {
		log.Fatalf("open backend: %v", err)
	}
	defer backend.Close()

	srv := store.NewServer(backend)
	defer srv.Close()

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		log.Fatalf("listen on %s: %v", cfg.ListenAddr, err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	go func() {
		if err := http.Serve(listener, srv); err != nil {
			log.Printf("store service stopped: %v", err)
		}
	}()

	if mdnsServer, err := lan.Advertise(port); err != nil {
		log.Printf("mdns advertise failed (share link still works): %v", err)
	} else {
		defer mdnsServer.Shutdown()
	}

	log.Printf("Share link: %s:%d", lan.OutgoingIP(), port)

	if headless {
		waitForInterrupt()
		return
	}
	openCanvas(cfg, fmt.Sprintf("127.0.0.1:%d", port))
}

// runJoin resolves a store address and opens a canvas against it.
func runJoin(cfg config.Config, flagAddr string) {
	log.Println("Starting as CLIENT")

	addr := flagAddr
	if addr == "" {
		addr = cfg.StoreAddr
	}
	if addr == "" {
		discovered, err := lan.Discover(3 * time.Second)
		if err != nil {
			log.Fatalf("discover board host: %v", err)
		}
		log.Printf("Discovered board host at %s", discovered)
		addr = discovered
	}
	openCanvas(cfg, addr)
}

func openCanvas(cfg config.Config, addr string) {
	session := state.NewSession(cfg.PenColor, cfg.PenThickness)
	client := strokesync.NewClient(addr)
	ui.Run(addr, session, syncAdapter{client}, cfg.FlushInterval)
}

// syncAdapter lifts *sync.Client's concrete subscription type to the
// controller's interface.
type syncAdapter struct {
	*strokesync.Client
}

func (a syncAdapter) SubscribeInserts(onInsert func(state.Stroke)) (controller.Subscription, error) {
	return a.Client.SubscribeInserts(onInsert)
}

func waitForInterrupt() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down")
}
