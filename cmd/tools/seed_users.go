package main

import (
	"context"
	"dm-lab/auth"
	"dm-lab/repositories"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
}

// Registers users in the directory and prints a bearer token for each.
// The server must be stopped: badger holds an exclusive lock on its directory.
func main() {
	names := flag.String("users", "Alice,Bob,Clara", "Comma separated display names")
	flag.Parse()

	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	users := repositories.NewUserRepository(db)
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "ID", "Token"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")

	for _, name := range strings.Split(*names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		user, err := users.CreateUser(context.Background(), name, "")
		if err != nil {
			log.Fatalf("Failed to create %s: %v", name, err)
		}
		token, err := tokens.GenerateToken(user.ID)
		if err != nil {
			log.Fatalf("Failed to sign token for %s: %v", name, err)
		}
		table.Append([]string{user.Name, user.ID, token})
	}
	table.Render()
	fmt.Println("\nExport one token as DM_TOKEN to start the terminal client.")
}
