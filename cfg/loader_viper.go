package cfg

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "CRAWLER"

type ViperLoader struct {
	v                     *viper.Viper
	configPath            string
	configName            string
	watch                 bool
	once                  sync.Once
	mu                    sync.RWMutex
	cfg                   *Config
	configChangeCallbacks []func(*Config)
}

func NewViperLoader() (*ViperLoader, error) {
	return NewViperLoaderAt("cfg/yaml", "mode", true)
}

// NewViperLoaderAt đọc <path>/<name>.yaml, watch=false thì không theo dõi thay đổi file
func NewViperLoaderAt(path, name string, watch bool) (*ViperLoader, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("[ERROR][CONFIG] config name is required")
	}
	return &ViperLoader{
		v:                     viper.New(),
		configPath:            path,
		configName:            name,
		watch:                 watch,
		configChangeCallbacks: make([]func(*Config), 0),
	}, nil
}

func (vl *ViperLoader) Load() (*Config, error) {
	var err error
	vl.once.Do(func() {
		var fileFound bool
		fileFound, err = vl.loadConfig()
		if err == nil && fileFound && vl.IsWatchChange() {
			vl.v.OnConfigChange(func(e fsnotify.Event) {
				fmt.Printf("[INFO][CONFIG] Config file changed: %s\n", e.Name)
				if errReload := vl.reloadConfig(); errReload != nil {
					fmt.Printf("[ERROR][CONFIG] Failed to reload config: %v\n", errReload)
				}
			})
			vl.v.WatchConfig()
		}
	})

	if err != nil {
		return nil, err
	}

	vl.mu.RLock()
	defer vl.mu.RUnlock()
	return vl.cfg, nil
}

func (vl *ViperLoader) IsWatchChange() bool {
	return vl.watch
}

func (vl *ViperLoader) RegisterConfigChangeCallback(callback func(*Config)) {
	vl.mu.Lock()
	vl.configChangeCallbacks = append(vl.configChangeCallbacks, callback)
	vl.mu.Unlock()
}

func (vl *ViperLoader) setDefaults() {
	v := vl.v
	v.SetDefault("app.name", "github-trending")
	v.SetDefault("app.version", "0.0.1")

	v.SetDefault("mysql.enabled", false)
	v.SetDefault("mysql.host", "127.0.0.1")
	v.SetDefault("mysql.port", "3306")
	v.SetDefault("mysql.username", "root")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.database", "github_trending")
	v.SetDefault("mysql.maxidleconnection", 10)
	v.SetDefault("mysql.maxopenconnection", 100)
	v.SetDefault("mysql.maxlifetimeconnection", 3600)

	v.SetDefault("githubapi.accesstoken", "")
	v.SetDefault("githubapi.graphqlurl", "https://api.github.com/graphql")
	v.SetDefault("githubapi.trendingurl", "https://github.com/trending")
	v.SetDefault("githubapi.requestspersecond", 2)
	v.SetDefault("githubapi.throttledelay", 100)
	v.SetDefault("githubapi.timeoutsec", 30)

	v.SetDefault("trending.popularlangs", []string{})
	v.SetDefault("trending.spokenfilter", true)

	v.SetDefault("archive.dir", "archive")
	v.SetDefault("archive.parquet", false)

	v.SetDefault("scheduler.interval", time.Hour)
	v.SetDefault("scheduler.publishevery", 3)
	v.SetDefault("scheduler.pollinterval", time.Second)
	v.SetDefault("scheduler.repopath", ".")
	v.SetDefault("scheduler.commitmessage", "crawler auto commit")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.groupid", "trending-consumer-group")
	v.SetDefault("kafka.producer.topictrending", "github-trending")

	v.SetDefault("objectstore.enabled", false)
	v.SetDefault("objectstore.endpoint", "")
	v.SetDefault("objectstore.region", "us-east-1")
	v.SetDefault("objectstore.accesskey", "")
	v.SetDefault("objectstore.secretkey", "")
	v.SetDefault("objectstore.bucket", "")
	v.SetDefault("objectstore.usessl", true)

	v.SetDefault("ui.enabled", false)
	v.SetDefault("ui.port", 8080)
}

// loadConfig trả về true nếu đọc được file cấu hình
func (vl *ViperLoader) loadConfig() (bool, error) {
	// Token thường nằm trong .env, không có file .env cũng không sao
	_ = godotenv.Load()

	vl.setDefaults()
	vl.v.SetEnvPrefix(envPrefix)
	vl.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vl.v.AutomaticEnv()
	if err := vl.v.BindEnv("githubapi.accesstoken", envPrefix+"_GITHUBAPI_ACCESSTOKEN", "GITHUB_TOKEN"); err != nil {
		return false, fmt.Errorf("[ERROR][CONFIG] failed to bind token env: %w", err)
	}

	vl.v.AddConfigPath(vl.configPath)
	vl.v.SetConfigName(vl.configName)
	vl.v.SetConfigType("yaml")

	fileFound := true
	if err := vl.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return false, fmt.Errorf("[ERROR][CONFIG] failed to read config file: %w", err)
		}
		// Không có file, dùng default + env
		fileFound = false
	}

	cfg := &Config{}
	if err := vl.v.Unmarshal(cfg); err != nil {
		return false, fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config: %w", err)
	}

	vl.mu.Lock()
	vl.cfg = cfg
	vl.mu.Unlock()

	return fileFound, nil
}

func (vl *ViperLoader) reloadConfig() error {
	cfg := &Config{}
	if err := vl.v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config during reload: %w", err)
	}

	vl.mu.Lock()
	vl.cfg = cfg

	callbacks := make([]func(*Config), len(vl.configChangeCallbacks))
	copy(callbacks, vl.configChangeCallbacks)
	vl.mu.Unlock()
	for _, callback := range callbacks {
		go callback(cfg)
	}

	fmt.Println("[INFO][CONFIG] Configuration reloaded successfully")
	return nil
}
