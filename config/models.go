package config

// Config holds the configuration of the application.
// Use config.LoadConfig to create a new instance.
type Config struct {
	Anonymizer   AnonymizerConfig   `mapstructure:"anonymizer"`
	NLP          NLP                `mapstructure:"nlp"`
	LLM          LLM                `mapstructure:"llm"`
	MappingStore MappingStoreConfig `mapstructure:"mapping_store"`
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	Auth         AuthConfig         `mapstructure:"auth"`
}

// AnonymizerConfig controls the detection pipeline.
type AnonymizerConfig struct {
	// ModelDetector enables the external NER model detector. When disabled
	// or unreachable, detection degrades to pattern rules only.
	ModelDetector bool `mapstructure:"model_detector"`
}

type NLP struct {
	ServerURL string `mapstructure:"server_url"`
}

type LLM struct {
	Service string `mapstructure:"service"`
	Model   string `mapstructure:"model"`
	// APIKey is loaded from ENV not config file.
	APIKey string `mapstructure:"api_key"`
}

type MappingStoreConfig struct {
	Type string `mapstructure:"type"`
	// Secret is the encryption secret for mappings at rest.
	// Loaded from ENV not config file.
	Secret   string         `mapstructure:"secret"`
	File     FileConfig     `mapstructure:"file"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type FileConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AuthConfig struct {
	Secret   string `mapstructure:"secret"`
	Required bool   `mapstructure:"required"`
}
