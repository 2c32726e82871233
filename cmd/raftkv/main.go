// Command raftkv runs one member of a raftkv cluster: the Raft peer
// protocol on raft_addr, and the client HTTP gateway on client_addr.
package main

import (
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/raftkv/raftkv/internal/config"
	"github.com/raftkv/raftkv/internal/database"
	"github.com/raftkv/raftkv/internal/gateway"
	"github.com/raftkv/raftkv/internal/node"
	"github.com/raftkv/raftkv/internal/raft"
	"github.com/raftkv/raftkv/internal/raftclient"
	"github.com/raftkv/raftkv/internal/raftserver"
	"github.com/raftkv/raftkv/internal/statemgr"
)

func main() {
	configPath := flag.String("config", "", "path to the node's YAML config file")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *configPath == "" {
		log.Fatal().Msg("-config is required")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatal().Err(err).Str("data_dir", cfg.DataDir).Msg("failed to create data directory")
	}

	terms := raft.NewTermStore(filepath.Join(cfg.DataDir, "term"))
	logStore := raft.NewLog(filepath.Join(cfg.DataDir, "raftlog"))
	store := database.New()

	transport := raftclient.NewManager()
	defer transport.Close()

	nodeCfg := node.DefaultConfig(cfg.NodeID, cfg.ClientAddr, cfg.Peers)
	nodeCfg.ElectionTimeoutMin = cfg.ElectionTimeoutMin()
	nodeCfg.ElectionTimeoutMax = cfg.ElectionTimeoutMax()
	nodeCfg.HeartbeatInterval = cfg.HeartbeatInterval()
	nodeCfg.MaxAppendEntries = cfg.MaxAppendEntries

	n := node.New(nodeCfg, terms, logStore, transport, store, log.Logger)
	defer n.Stop()

	mgr := statemgr.New(n, nodeCfg.ElectionTimeoutMin, nodeCfg.ElectionTimeoutMax, nodeCfg.HeartbeatInterval, log.Logger)
	go mgr.Run()
	defer mgr.Stop()

	lis, err := net.Listen("tcp", cfg.RaftAddr)
	if err != nil {
		log.Fatal().Err(err).Str("raft_addr", cfg.RaftAddr).Msg("failed to bind raft listener")
	}
	raftSrv := raftserver.StartRaftServer(lis, n)
	defer raftSrv.GracefulStop()

	engine := gateway.New(n, store, nodeCfg.SubmitTimeout)
	httpSrv := &http.Server{Addr: cfg.ClientAddr, Handler: engine}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("client gateway failed to serve")
		}
	}()

	log.Info().
		Str("node_id", cfg.NodeID).
		Str("raft_addr", cfg.RaftAddr).
		Str("client_addr", cfg.ClientAddr).
		Int("peers", len(cfg.Peers)).
		Msg("raftkv started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("shutting down")
	_ = httpSrv.Close()
}
