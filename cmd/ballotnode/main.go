// Command ballotnode runs a commit-reveal voting node: the ballot ledger
// with its Groth16 verifiers, backed by a local key-value store and exposed
// over the HTTP API.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/vocdoni/commitreveal-sandbox/api"
	"github.com/vocdoni/commitreveal-sandbox/circuits/commitproof"
	"github.com/vocdoni/commitreveal-sandbox/circuits/revealproof"
	"github.com/vocdoni/commitreveal-sandbox/ledger"
	"github.com/vocdoni/commitreveal-sandbox/log"
	"github.com/vocdoni/commitreveal-sandbox/storage"
)

const (
	defaultHost      = "0.0.0.0"
	defaultPort      = 9090
	defaultLogLevel  = "info"
	defaultLogOutput = "stdout"
	defaultDatadir   = ".ballotnode" // prefixed with the user's home directory
)

func main() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	datadir := flag.String("datadir", filepath.Join(home, defaultDatadir), "data directory")
	host := flag.String("host", defaultHost, "API host to bind")
	port := flag.Int("port", defaultPort, "API port")
	dbType := flag.String("dbType", db.TypePebble, "database type (pebble or mongodb)")
	logLevel := flag.String("logLevel", defaultLogLevel, "log level (debug, info, warn, error)")
	logOutput := flag.String("logOutput", defaultLogOutput, "log output (stdout, stderr or file path)")
	flag.Parse()

	log.Init(*logLevel, *logOutput)
	log.Infow("starting ballotnode", "datadir", *datadir, "host", *host, "port", *port)

	if err := os.MkdirAll(*datadir, 0o755); err != nil {
		log.Fatalf("could not create data directory: %v", err)
	}
	database, err := metadb.New(*dbType, filepath.Join(*datadir, "db"))
	if err != nil {
		log.Fatalf("could not open database: %v", err)
	}
	stg := storage.New(database)
	defer stg.Close()

	// Compiling the circuits and generating the Groth16 keys takes a while
	// on the first run; afterwards they are read back from the data
	// directory.
	artifactsDir := filepath.Join(*datadir, "artifacts")
	if err := os.MkdirAll(artifactsDir, 0o755); err != nil {
		log.Fatalf("could not create artifacts directory: %v", err)
	}
	commitVerifier := commitproof.NewProver(artifactsDir)
	revealVerifier := revealproof.NewProver(artifactsDir)

	ledg := ledger.New(stg, commitVerifier, revealVerifier)
	if _, err := api.New(&api.APIConfig{
		Host:   *host,
		Port:   *port,
		Ledger: ledg,
	}); err != nil {
		log.Fatalf("could not start API: %v", err)
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Infow("received signal, shutting down", "signal", fmt.Sprint(sig))
}
