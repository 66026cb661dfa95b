package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/kerkportaal/lms-backend/internal/config"
	"github.com/kerkportaal/lms-backend/internal/database"
	"github.com/kerkportaal/lms-backend/internal/logger"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/kerkportaal/lms-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin User ===")

	fmt.Print("Enter First Name: ")
	naam, _ := reader.ReadString('\n')
	naam = strings.TrimSpace(naam)
	if naam == "" {
		fmt.Println("Error: First name is required")
		return
	}

	fmt.Print("Enter Last Name: ")
	van, _ := reader.ReadString('\n')
	van = strings.TrimSpace(van)
	if van == "" {
		fmt.Println("Error: Last name is required")
		return
	}

	fmt.Print("Enter Email: ")
	epos, _ := reader.ReadString('\n')
	epos = strings.TrimSpace(epos)
	if epos == "" {
		fmt.Println("Error: Email is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	admin := &model.Gebruiker{
		Naam:         naam,
		Van:          van,
		Epos:         epos,
		WagwoordHash: string(hashedPassword),
		Rol:          model.RolAdmin,
		IsAktief:     true,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %s\n", admin.VolleNaam(), admin.Epos, admin.ID)
}
