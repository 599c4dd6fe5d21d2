package models

import (
	"github.com/getveil/veil/config"
)

// AppState is a struct that holds the state of the application
// Use cmd.NewAppState to create a new instance
type AppState struct {
	Anonymizer   Anonymizer
	MappingStore MappingStore
	LLMClient    ChatClient
	Config       *config.Config
}
