// Package main registers a new user account. Accounts are not self-service.
package main

import (
	"context"
	"flag"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/raphskal/gymtracker/internal/auth"
	"github.com/raphskal/gymtracker/internal/config"
	"github.com/raphskal/gymtracker/internal/db"
	"github.com/raphskal/gymtracker/internal/db/migrations"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	email := flag.String("email", "", "email of the new user")
	password := flag.String("password", "", "password of the new user (min 6 characters)")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		log.Fatal("email and password are required")
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		log.Fatalf("load secrets: %s", err)
	}

	ctx := context.Background()
	dbParams := db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.PostgresPassword,
	}
	if err := migrations.Up(ctx, dbParams.ConnString()); err != nil {
		log.Fatalf("migrations: %s", err)
	}

	dbPool, err := db.NewDBPool(ctx, dbParams)
	if err != nil {
		log.Fatalf("db pool: %s", err)
	}
	defer dbPool.Close()

	// sessions are not touched when registering, no redis client needed
	authService := auth.NewService(auth.NewUsersRepo(dbPool), cfg.SessionTTL(), nil)
	user, err := authService.Register(ctx, *email, *password)
	if err != nil {
		dbPool.Close()
		log.Fatalf("register user: %s", err)
	}

	fmt.Printf("user created: %s [%s]\n", user.Email, user.ID)
}
