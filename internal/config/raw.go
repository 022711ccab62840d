package config

// RawLogging mirrors LoggingConfig with presence tracking.
type RawLogging struct {
	Level *string `yaml:"level"`
	File  *string `yaml:"file"`
}

// RawConfig is a config file as written: nil fields were not set and keep
// their default.
type RawConfig struct {
	TitleCapacity         *int        `yaml:"title_capacity"`
	EmptyTitlePlaceholder *string     `yaml:"empty_title_placeholder"`
	Logging               *RawLogging `yaml:"logging"`
}
