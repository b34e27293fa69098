package config

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

type RedisConfig struct {
	Addr          string   `yaml:"addr"` // Used for single node or as one of sentinel's addrs (though sentinel_addrs is preferred for sentinels)
	Password      string   `yaml:"password,omitempty"`
	DB            int      `yaml:"db,omitempty"`
	MasterName    string   `yaml:"master_name,omitempty"`    // For Sentinel
	SentinelAddrs []string `yaml:"sentinel_addrs,omitempty"` // For Sentinel: list of "host:port"
}

type MongoConfig struct {
	URI              string   `yaml:"uri"`             // Primary connection string, can contain all options
	Hosts            []string `yaml:"hosts,omitempty"` // Alternative: list of "host:port" for mongos or replica set members
	ReplicaSet       string   `yaml:"replica_set,omitempty"`
	Username         string   `yaml:"username,omitempty"`
	Password         string   `yaml:"password,omitempty"`    // Consider using a more secure way to handle passwords in real deployments
	AuthSource       string   `yaml:"auth_source,omitempty"` // e.g., "admin" or the database name
	Database         string   `yaml:"database"`              // The default database to use
	Collection       string   `yaml:"collection"`            // Default collection (current design of NewMongoClient uses this)
	ConnectTimeoutMS int64    `yaml:"connect_timeout_ms,omitempty"`
	MaxPoolSize      uint64   `yaml:"max_pool_size,omitempty"`
}

type ConsulConfig struct {
	Addr string `yaml:"addr"`
}

type NSQConfig struct {
	NSQDAddr                string   `yaml:"nsqd_addr,omitempty"`                 // Kept for single-node setup or fallback
	NSQDAddresses           []string `yaml:"nsqd_addresses,omitempty"`            // For producer to connect to a list of nsqd instances
	NSQLookupdHTTPAddresses []string `yaml:"nsqlookupd_http_addresses,omitempty"` // For consumers and optionally for producers to discover nsqds
	Topic                   string   `yaml:"topic,omitempty"`                     // Default topic
	Channel                 string   `yaml:"channel,omitempty"`                   // Default channel for consumers
}

// ServerConfig holds the backing-service configuration shared by the example
// apps under examples/ (storage, discovery, messaging). It is distinct from
// the top-level Settings document (settings.go), which drives the host
// itself rather than any one app's infra.
type ServerConfig struct {
	Redis  RedisConfig  `yaml:"redis"`
	Mongo  MongoConfig  `yaml:"mongo"`
	Consul ConsulConfig `yaml:"consul"`
	NSQ    NSQConfig    `yaml:"nsq"`
	Server ServerInfo   `yaml:"server"`
}

// ServerInfo holds basic host-address information shared by the example apps.
type ServerInfo struct {
	Host                string         `yaml:"host"`
	ServiceRPCPorts     map[string]int `yaml:"service_rpc_ports"`      // app name -> RPC port, for internal calls
	RegisterSelfAsHost  bool           `yaml:"register_self_as_host,omitempty"`
}

var (
	serverConfigInstance *ServerConfig
)

func GetServerConfig() *ServerConfig {
	if serverConfigInstance == nil {
		var err error
		serverConfigInstance, err = loadConfig("config/server.yaml")
		if err != nil {
			panic(fmt.Sprintf("Failed to load server config: %v", err))
		}
	}
	return serverConfigInstance
}

func loadConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err) // Added more context to error
	}

	var cfg ServerConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err) // Added more context to error
	}

	return &cfg, nil
}
