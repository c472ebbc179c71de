/*
Package config resolves runtime configuration once at startup.

PURPOSE:
  Reads an optional .env file plus process environment into a Config.
  Table names are part of configuration: each logical collection maps to
  exactly one table, decided here and never probed at request time.

PRECEDENCE:
  Command-line flags (cmd/server) > environment > .env file > defaults.

VARIABLES:
  ADDR              Listen address (default ":8080")
  DB_PATH           SQLite database path (default "alreadydead.db";
                    ":memory:" supported)
  LOCAL_MODE        "true" = in-memory store instead of SQLite
  TABLE_INVENTORY   Inventory table name (default "inventory")
  TABLE_SALES       Sales table name (default "sales")
  TABLE_CLIENTS     Clients table name (default "clients")
  TABLE_SELLERS     Sellers table name (default "sellers")
  TABLE_SHIPMENTS   Shipments table name (default "shipments")
*/
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// TableNames maps each logical collection to its resolved table.
type TableNames struct {
	Inventory string
	Sales     string
	Clients   string
	Sellers   string
	Shipments string
}

// Config is the resolved runtime configuration.
type Config struct {
	Addr      string
	DBPath    string
	LocalMode bool
	Tables    TableNames
}

// Load reads the .env file at path (missing file is fine) and resolves
// the configuration from the environment.
func Load(path string) *Config {
	// Best effort: a missing .env just means "environment only".
	_ = godotenv.Load(path)

	return &Config{
		Addr:      getEnv("ADDR", ":8080"),
		DBPath:    getEnv("DB_PATH", "alreadydead.db"),
		LocalMode: getBool("LOCAL_MODE", false),
		Tables: TableNames{
			Inventory: getEnv("TABLE_INVENTORY", "inventory"),
			Sales:     getEnv("TABLE_SALES", "sales"),
			Clients:   getEnv("TABLE_CLIENTS", "clients"),
			Sellers:   getEnv("TABLE_SELLERS", "sellers"),
			Shipments: getEnv("TABLE_SHIPMENTS", "shipments"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
