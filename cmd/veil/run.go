package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oiime/logrusbun"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"github.com/getveil/veil/config"
	"github.com/getveil/veil/pkg/anonymizer"
	"github.com/getveil/veil/pkg/auth"
	"github.com/getveil/veil/pkg/crypto"
	"github.com/getveil/veil/pkg/detect"
	"github.com/getveil/veil/pkg/llms"
	"github.com/getveil/veil/pkg/models"
	"github.com/getveil/veil/pkg/server"
	"github.com/getveil/veil/pkg/store"
)

const (
	ErrMappingStoreTypeNotSet = "mapping_store.type must be set"
	ErrEncryptionKeyNotSet    = "mapping store secret not set. Ensure VEIL_ENCRYPTION_KEY is set in your environment"
	ErrPostgresDSNNotSet      = "mapping_store.postgres.dsn must be set"
	MappingStoreTypeFile      = "file"
	MappingStoreTypePostgres  = "postgres"
)

// run is the entrypoint for the veil server
func run() {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error configuring Veil: %s", err)
	}

	handleCLIOptions(cfg)

	log.Infof("Starting veil server version %s", config.VersionString)

	config.SetLogLevel(cfg)
	appState := NewAppState(cfg)

	srv := server.Create(appState)

	log.Infof("Listening on: %s", srv.Addr)
	err = srv.ListenAndServe()
	if err != nil {
		log.Fatal(err)
	}
}

// NewAppState creates an AppState struct from the config file / ENV,
// initializes the mapping store, and creates the detection engine and the
// LLM client.
func NewAppState(cfg *config.Config) *models.AppState {
	var model models.ModelDetector
	if cfg.Anonymizer.ModelDetector {
		if cfg.NLP.ServerURL == "" {
			log.Fatal("anonymizer.model_detector enabled but nlp.server_url not set")
		}
		model = detect.NewNERClient(cfg.NLP.ServerURL)
	} else {
		log.Info("Model detector disabled. Using pattern detection only.")
	}

	appState := &models.AppState{
		Anonymizer: anonymizer.NewService(model),
		Config:     cfg,
	}

	if cfg.LLM.APIKey != "" {
		llmClient, err := llms.NewGroqClient(cfg)
		if err != nil {
			log.Fatalf("Failed to create LLM client: %v", err)
		}
		appState.LLMClient = llmClient
	} else {
		log.Info("LLM API key not set. LLM round trip disabled.")
	}

	initializeMappingStore(appState)
	setupSignalHandler(appState)

	return appState
}

// handleCLIOptions handles CLI options that don't require the server to run
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		fmt.Printf("%+v\n", *cfg)
		os.Exit(0)
	}
	if generateKey {
		key, err := crypto.GenerateKey()
		if err != nil {
			log.Fatalf("Error generating encryption key: %v", err)
		}
		fmt.Println(key)
		os.Exit(0)
	}
	if generateToken {
		fmt.Println(auth.GenerateJWT(cfg))
		os.Exit(0)
	}
}

// initializeMappingStore initializes the mapping store based on the config file / ENV
func initializeMappingStore(appState *models.AppState) {
	cfg := appState.Config
	if cfg.MappingStore.Type == "" {
		log.Fatal(ErrMappingStoreTypeNotSet)
	}
	if cfg.MappingStore.Secret == "" {
		log.Fatal(ErrEncryptionKeyNotSet)
	}

	switch cfg.MappingStore.Type {
	case MappingStoreTypeFile:
		mappingStore, err := store.NewFileStore(
			cfg.MappingStore.File.Path,
			cfg.MappingStore.Secret,
		)
		if err != nil {
			log.Fatal(err)
		}
		appState.MappingStore = mappingStore
	case MappingStoreTypePostgres:
		if cfg.MappingStore.Postgres.DSN == "" {
			log.Fatal(ErrPostgresDSNNotSet)
		}
		db := store.NewPostgresConn(cfg.MappingStore.Postgres.DSN)
		if cfg.Log.Level == "debug" {
			pgDebugLogging(db)
		}
		mappingStore, err := store.NewPostgresStore(db, cfg.MappingStore.Secret)
		if err != nil {
			log.Fatal(err)
		}
		appState.MappingStore = mappingStore
	default:
		log.Fatal(
			fmt.Sprintf(
				"mapping_store.type (%s) is not supported",
				cfg.MappingStore.Type,
			),
		)
	}

	log.Info("Using mapping store: ", cfg.MappingStore.Type)
}

func pgDebugLogging(db *bun.DB) {
	db.AddQueryHook(logrusbun.NewQueryHook(logrusbun.QueryHookOptions{
		LogSlow:         time.Second,
		Logger:          log,
		QueryLevel:      logrus.DebugLevel,
		ErrorLevel:      logrus.ErrorLevel,
		SlowLevel:       logrus.WarnLevel,
		MessageTemplate: "{{.Operation}}[{{.Duration}}]: {{.Query}}",
		ErrorTemplate:   "{{.Operation}}[{{.Duration}}]: {{.Query}}: {{.Error}}",
	}))
}

// setupSignalHandler sets up a signal handler to close the MappingStore connection on termination
func setupSignalHandler(appState *models.AppState) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		if err := appState.MappingStore.Close(); err != nil {
			log.Errorf("Error closing MappingStore connection: %v", err)
		}
		os.Exit(0)
	}()
}
