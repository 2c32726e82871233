// Package gateway is the client-facing HTTP REST API (spec.md §6.2): a
// thin gin.Engine translating PUT/GET/DELETE requests into Node Core
// submissions or direct ASM reads.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/raftkv/raftkv/internal/database"
	"github.com/raftkv/raftkv/internal/node"
	"github.com/raftkv/raftkv/internal/raft"
)

// Gateway wires a Node and its ASM to an HTTP API.
type Gateway struct {
	Node          *node.Node
	Store         *database.Store
	SubmitTimeout time.Duration
}

type setBody struct {
	Value          string `json:"value" binding:"required"`
	ClientID       string `json:"client_id"`
	SequenceNumber uint64 `json:"sequence_number"`
}

type deleteBody struct {
	ClientID       string `json:"client_id"`
	SequenceNumber uint64 `json:"sequence_number"`
}

// notLeaderResponse is returned (HTTP 421) when a write or a leader-only
// read lands on a non-leader node, carrying a hint at the real leader.
type notLeaderResponse struct {
	Error      string `json:"error"`
	LeaderHint string `json:"leader_hint,omitempty"`
}

// New builds the gin engine: CORS, Swagger docs, and the /v1 KV routes.
func New(n *node.Node, store *database.Store, submitTimeout time.Duration) *gin.Engine {
	g := &Gateway{Node: n, Store: store, SubmitTimeout: submitTimeout}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginLogger())

	corsMiddleware := cors.New(cors.Options{
		AllowedMethods: []string{"GET", "PUT", "DELETE"},
		AllowedHeaders: []string{"Content-Type"},
	})
	r.Use(func(c *gin.Context) {
		corsMiddleware.HandlerFunc(c.Writer, c.Request)
		c.Next()
	})

	v1 := r.Group("/v1")
	{
		v1.PUT("/kv/:key", g.handleSet)
		v1.GET("/kv/:key", g.handleGet)
		v1.DELETE("/kv/:key", g.handleDelete)
		v1.GET("/status", g.handleStatus)
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// handleSet godoc
// @Summary Set a key
// @Router /v1/kv/{key} [put]
func (g *Gateway) handleSet(c *gin.Context) {
	var body setBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), g.SubmitTimeout)
	defer cancel()
	_, err := g.Node.Submit(ctx, node.SubmitRequest{
		Action:         raft.LogRecord_SET,
		Key:            c.Param("key"),
		Value:          body.Value,
		ClientID:       body.ClientID,
		SequenceNumber: body.SequenceNumber,
	})
	g.respondToSubmit(c, http.StatusNoContent, nil, err)
}

// handleDelete godoc
// @Summary Delete a key
// @Router /v1/kv/{key} [delete]
func (g *Gateway) handleDelete(c *gin.Context) {
	var body deleteBody
	_ = c.ShouldBindJSON(&body)
	ctx, cancel := context.WithTimeout(c.Request.Context(), g.SubmitTimeout)
	defer cancel()
	_, err := g.Node.Submit(ctx, node.SubmitRequest{
		Action:         raft.LogRecord_DEL,
		Key:            c.Param("key"),
		ClientID:       body.ClientID,
		SequenceNumber: body.SequenceNumber,
	})
	g.respondToSubmit(c, http.StatusNoContent, nil, err)
}

// handleGet godoc
// @Summary Get a key
// @Router /v1/kv/{key} [get]
func (g *Gateway) handleGet(c *gin.Context) {
	status := g.Node.StatusSnapshot()
	if status.Role != node.Leader {
		c.JSON(http.StatusMisdirectedRequest, notLeaderResponse{
			Error:      "not leader",
			LeaderHint: status.LeaderHint,
		})
		return
	}
	value, ok := g.Store.Query(c.Param("key"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "key not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": value})
}

// handleStatus godoc
// @Summary Report this node's role and log position
// @Router /v1/status [get]
func (g *Gateway) handleStatus(c *gin.Context) {
	status := g.Node.StatusSnapshot()
	c.JSON(http.StatusOK, gin.H{
		"id":           status.ID,
		"role":         status.Role.String(),
		"term":         status.Term,
		"commit_index": status.CommitIndex,
		"last_applied": status.LastApplied,
		"leader_hint":  status.LeaderHint,
	})
}

func (g *Gateway) respondToSubmit(c *gin.Context, successCode int, body interface{}, err error) {
	if err == nil {
		c.JSON(successCode, body)
		return
	}
	if nl, ok := err.(*node.NotLeaderError); ok {
		c.JSON(http.StatusMisdirectedRequest, notLeaderResponse{Error: "not leader", LeaderHint: nl.LeaderHint})
		return
	}
	if err == context.DeadlineExceeded {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "submission timed out waiting for commit"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func ginLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
