package cfg

import (
	"fmt"
	"os"
	"strings"
)

type Loader interface {
	Load() (*Config, error)
}

// NewLoader chọn loader theo biến môi trường CRAWLER_MODE ("mock" hoặc mặc định là viper)
func NewLoader() (Loader, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv("CRAWLER_MODE")))
	switch mode {
	case "mock":
		return NewMockLoader()
	case "", "viper":
		return NewViperLoader()
	default:
		return nil, fmt.Errorf("[ERROR][CONFIG] unsupported loader mode: %s", mode)
	}
}
