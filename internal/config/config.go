// Package config loads the YAML cluster/node configuration described by
// spec.md §6.3.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// File is the on-disk shape of a node's YAML config file.
type File struct {
	NodeID               string   `yaml:"node_id"`
	Peers                []string `yaml:"peers"`
	ElectionTimeoutMinMs int      `yaml:"election_timeout_min_ms"`
	ElectionTimeoutMaxMs int      `yaml:"election_timeout_max_ms"`
	HeartbeatIntervalMs  int      `yaml:"heartbeat_interval_ms"`
	MaxAppendEntries     int      `yaml:"max_append_entries"`
	DataDir              string   `yaml:"data_dir"`
	ClientAddr           string   `yaml:"client_addr"`
	RaftAddr             string   `yaml:"raft_addr"`
}

// Load reads and parses a YAML config file at path, filling in spec.md
// §6.3's defaults for any zero-valued timing field.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	f.applyDefaults()
	if f.NodeID == "" {
		return nil, fmt.Errorf("config: node_id is required")
	}
	if f.RaftAddr == "" {
		f.RaftAddr = f.NodeID
	}
	return &f, nil
}

func (f *File) applyDefaults() {
	if f.ElectionTimeoutMinMs == 0 {
		f.ElectionTimeoutMinMs = 150
	}
	if f.ElectionTimeoutMaxMs == 0 {
		f.ElectionTimeoutMaxMs = 300
	}
	if f.HeartbeatIntervalMs == 0 {
		f.HeartbeatIntervalMs = 50
	}
	if f.MaxAppendEntries == 0 {
		f.MaxAppendEntries = 100
	}
	if f.DataDir == "" {
		f.DataDir = "."
	}
}

// ElectionTimeoutMin returns the configured minimum as a time.Duration.
func (f *File) ElectionTimeoutMin() time.Duration {
	return time.Duration(f.ElectionTimeoutMinMs) * time.Millisecond
}

// ElectionTimeoutMax returns the configured maximum as a time.Duration.
func (f *File) ElectionTimeoutMax() time.Duration {
	return time.Duration(f.ElectionTimeoutMaxMs) * time.Millisecond
}

// HeartbeatInterval returns the configured heartbeat period as a time.Duration.
func (f *File) HeartbeatInterval() time.Duration {
	return time.Duration(f.HeartbeatIntervalMs) * time.Millisecond
}
