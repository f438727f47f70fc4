package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_STORE_DRIVER picks the store the stack runs on (badger|sqlite)
	StoreDriver string `envconfig:"E2E_STORE_DRIVER" default:"badger"`
	// E2E_DEBUG_FRAMES logs every websocket frame received by a client
	DebugFrames bool `envconfig:"E2E_DEBUG_FRAMES" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
