// fixture-server runs the hermetic AIrWAVE stand-in on a local port, for
// driving the suite against a long-lived instance or poking the screens by
// hand.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/redbaez/airwave-e2e/internal/fixture"
	"github.com/redbaez/airwave-e2e/internal/obs"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8787", "listen address")
	email := flag.String("email", "qa@airwave.app", "seeded login email")
	password := flag.String("password", "correct-horse", "seeded login password")
	progress := flag.Duration("progress-interval", 250*time.Millisecond, "gap between generation progress frames")
	flag.Parse()

	obs.Init()
	log := obs.Pkg("fixture-server")

	srv := fixture.NewServer(fixture.Options{ProgressInterval: *progress})
	defer srv.Close()
	if err := srv.Sessions().Seed(*email, *password); err != nil {
		log.Error("seed account", "error", err)
		os.Exit(1)
	}

	log.Info("fixture listening", "addr", *addr, "email", *email)
	fmt.Printf("AIrWAVE fixture on http://%s (login %s)\n", *addr, *email)
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		log.Error("serve", "error", err)
		os.Exit(1)
	}
}
