// Command hashpassword prints a bcrypt hash for seeding accounts directly in the database.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Josey34/multivendor-api-project/internal/config"
	"github.com/Josey34/multivendor-api-project/internal/pkg/auth"
	"github.com/sirupsen/logrus"
)

func main() {
	cost := flag.Int("cost", 12, "bcrypt cost")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: go run ./scripts/hashpassword [-cost N] <password>")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	password := flag.Arg(0)

	passwords := auth.NewPasswordManager(&config.Config{
		Security: config.SecurityConfig{BcryptCost: *cost},
	})

	hash, err := passwords.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to hash password")
	}
	if err := passwords.VerifyPassword(password, hash); err != nil {
		logrus.WithError(err).Fatal("Hash verification failed")
	}

	fmt.Println(hash)
}
