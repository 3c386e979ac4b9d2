// Package config manages the on-disk layout of a Spout node: the data
// directory holding the database, the node key, and config.yaml itself.
//
// Init and Load are explicit; there is no process-wide config state.
package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/spout-app/spout/internal/ids"
)

const (
	// ConfigFile is the config file name inside the data directory.
	ConfigFile = "config.yaml"

	// DefaultDatabaseFile is the default SQLite database file name.
	DefaultDatabaseFile = "spout.db"

	// DefaultNodeKeyFile is the default node key file name.
	DefaultNodeKeyFile = "node.key"
)

// Config describes a node's data directory. File names are relative to
// DataDir.
type Config struct {
	// DataDir is the directory holding all node state.
	DataDir string `yaml:"-"`

	// DatabaseFile is the SQLite database file name.
	DatabaseFile string `yaml:"database_file"`

	// NodeKeyFile is the file holding the node's ed25519 signing key.
	NodeKeyFile string `yaml:"node_key_file"`
}

// Default returns the configuration a fresh Init would write.
func Default(dataDir string) Config {
	return Config{
		DataDir:      dataDir,
		DatabaseFile: DefaultDatabaseFile,
		NodeKeyFile:  DefaultNodeKeyFile,
	}
}

// DatabasePath returns the absolute path of the database file.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.DatabaseFile)
}

// NodeKeyPath returns the absolute path of the node key file.
func (c Config) NodeKeyPath() string {
	return filepath.Join(c.DataDir, c.NodeKeyFile)
}

// Render returns the YAML form of the config as Init writes it.
func (c Config) Render() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return out, nil
}

// Init creates the data directory, generates the node signing key, and
// writes config.yaml. Fails if the directory is already initialized.
func Init(dataDir string) (Config, error) {
	cfg := Default(dataDir)

	if _, err := os.Stat(filepath.Join(dataDir, ConfigFile)); err == nil {
		return Config{}, fmt.Errorf("data dir %s is already initialized", dataDir)
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return Config{}, fmt.Errorf("create data dir: %w", err)
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Config{}, fmt.Errorf("generate node key: %w", err)
	}
	keyHex := hex.EncodeToString(priv.Seed())
	if err := os.WriteFile(cfg.NodeKeyPath(), []byte(keyHex+"\n"), 0o600); err != nil {
		return Config{}, fmt.Errorf("write node key: %w", err)
	}

	rendered, err := cfg.Render()
	if err != nil {
		return Config{}, err
	}
	if err := os.WriteFile(filepath.Join(dataDir, ConfigFile), rendered, 0o600); err != nil {
		return Config{}, fmt.Errorf("write config: %w", err)
	}

	return cfg, nil
}

// Load reads config.yaml from an initialized data directory.
func Load(dataDir string) (Config, error) {
	raw, err := os.ReadFile(filepath.Join(dataDir, ConfigFile))
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default(dataDir)
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.DataDir = dataDir

	return cfg, nil
}

// NodeID derives the node's public identity from the stored signing key.
func (c Config) NodeID() (ids.NodeID, error) {
	raw, err := os.ReadFile(c.NodeKeyPath())
	if err != nil {
		return ids.NodeID{}, fmt.Errorf("read node key: %w", err)
	}

	seed, err := hex.DecodeString(trimNewline(string(raw)))
	if err != nil {
		return ids.NodeID{}, fmt.Errorf("decode node key: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return ids.NodeID{}, fmt.Errorf("node key is %d bytes, expected %d", len(seed), ed25519.SeedSize)
	}

	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return ids.NodeIDFromBytes(pub)
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
