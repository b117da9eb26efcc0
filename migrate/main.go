package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime)

	var dsn, path string
	flag.StringVar(&dsn, "db-dsn", os.Getenv("DB_DSN"), "PostgreSQL DSN")
	flag.StringVar(&path, "schema", "migrations/schema.sql", "Path to the schema file")
	flag.Parse()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal(err)
	}

	schema, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}

	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		log.Fatal(err)
	}

	log.Println("schema applied")
}
