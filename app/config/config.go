package config

import (
	"os"
	"strconv"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// StoreConfig carries the DSNs for the two Gazetteer Index backends.
type StoreConfig struct {
	MongoURI     string `yaml:"mongo_uri" json:"mongo_uri"`
	MongoDB      string `yaml:"mongo_db" json:"mongo_db"`
	MeiliURL     string `yaml:"meili_url" json:"meili_url"`
	MeiliAPIKey  string `yaml:"meili_api_key" json:"meili_api_key"`
	RedisAddr    string `yaml:"redis_addr" json:"redis_addr"`
}

// CacheConfig tunes the CachedIndex read-through wrapper.
type CacheConfig struct {
	L1Size   int `yaml:"l1_size" json:"l1_size"`
	L2TTLSec int `yaml:"l2_ttl_sec" json:"l2_ttl_sec"`
}

// ResolverConfig is the top-level tuning file for the resolver, loaded
// once into the package-level C and read thereafter.
type ResolverConfig struct {
	// GazetteerHome is the on-disk root of the built gazetteer, mirroring
	// the original PYGEONS_HOME environment variable.
	GazetteerHome    string      `yaml:"gazetteer_home" json:"gazetteer_home"`
	UseMeiliFallback bool        `yaml:"use_meili_fallback" json:"use_meili_fallback"`
	Store            StoreConfig `yaml:"store" json:"store"`
	Cache            CacheConfig `yaml:"cache" json:"cache"`
}

var C ResolverConfig

// Load reads path into C, then applies the environment-variable
// overrides that exist for drop-in compatibility with the original
// tool's env-driven configuration.
func Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, &C); err != nil {
		return err
	}
	applyEnvOverrides()
	return nil
}

// applyEnvOverrides layers environment variables over the loaded YAML
// using viper's binding, the same layering approach the rest of the
// pack uses for runtime-overridable config.
func applyEnvOverrides() {
	v := viper.New()
	v.AutomaticEnv()

	if home := v.GetString("PYGEONS_HOME"); home != "" {
		C.GazetteerHome = home
	}
	if s := os.Getenv("USE_MEILI_FALLBACK"); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			C.UseMeiliFallback = b
		}
	}
	if dsn := v.GetString("MONGO_URI"); dsn != "" {
		C.Store.MongoURI = dsn
	}
	if dsn := v.GetString("REDIS_ADDR"); dsn != "" {
		C.Store.RedisAddr = dsn
	}
}
