// Command cartagent runs the client-side cart subsystem headless: it keeps a
// durable local cart and syncs it against a storefront server until
// interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cartsync/client"
	"storefront/internal/cartsync/driver"
	"storefront/internal/cartsync/localstore"
	"storefront/internal/cartsync/store"
)

func main() {
	var (
		baseURL  = flag.String("server", "http://localhost:8080", "storefront base URL")
		session  = flag.String("session", "", "session token (empty runs as guest)")
		dbPath   = flag.String("db", "cart.db", "local cart database path")
		interval = flag.Duration("interval", driver.DefaultInterval, "sync interval")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[cartagent] ", log.LstdFlags|log.LUTC)

	kv, err := localstore.Open(*dbPath)
	if err != nil {
		logger.Fatalf("open local store: %v", err)
	}
	defer kv.Close()

	st, err := store.New(kv)
	if err != nil {
		logger.Fatalf("load cart: %v", err)
	}
	logger.Printf("cart loaded: %d items, total %d cents", st.ItemCount(), st.TotalPriceCents())

	cl := client.New(*baseURL, *session)
	d := driver.New(st, cl, *interval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *session != "" {
		loginCtx, loginCancel := context.WithTimeout(ctx, 15*time.Second)
		if err := d.OnLogin(loginCtx); err != nil {
			logger.Printf("login sync failed, will retry on tick: %v", err)
			d.SetAuthenticated(true)
		}
		loginCancel()
	}

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-stopCh
		logger.Printf("received signal %s, flushing and stopping", sig)
		cancel()
	}()

	d.Run(ctx)
	logger.Println("stopped")
}
