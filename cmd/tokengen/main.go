// cmd/tokengen/main.go
//
// tokengen prints a bearer token signed with the configured
// SUPABASE_JWT_SECRET, for calling a local server without Supabase.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smartadega/smartadega-api/internal/config"
	"github.com/smartadega/smartadega-api/internal/utils"
)

func main() {
	subject := flag.String("sub", "", "token subject (defaults to a random UUID)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	newSecret := flag.Bool("new-secret", false, "print a random secret suitable for SUPABASE_JWT_SECRET and exit")
	flag.Parse()

	if *newSecret {
		secret, err := utils.GenerateRandomString(48)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to generate secret")
		}
		fmt.Println(secret)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if cfg.IsProduction() {
		logrus.Fatal("Refusing to mint tokens in production")
	}

	if *subject == "" {
		*subject = uuid.New().String()
	}

	token, err := utils.NewTokenVerifier(cfg.JWT.SecretKey, cfg.JWT.Audience).Issue(*subject, *ttl)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to sign token")
	}

	fmt.Fprintf(os.Stderr, "subject: %s\n", *subject)
	fmt.Println(token)
}
