// Package main runs the lifts MCP server over stdio (for local MCP clients).
// The same server is mounted on the main backend at /mcp over HTTP.
package main

import (
	"context"
	"flag"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"

	"github.com/raphskal/gymtracker/internal/config"
	"github.com/raphskal/gymtracker/internal/db"
	"github.com/raphskal/gymtracker/internal/docstore"
	"github.com/raphskal/gymtracker/internal/lifts"
	liftsmcp "github.com/raphskal/gymtracker/internal/lifts/mcp"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		log.Fatalf("load secrets: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     secrets.PostgresPassword,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	server := liftsmcp.NewServer(lifts.NewService(docstore.NewPgStore(dbPool)))
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
