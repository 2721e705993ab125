package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
	"golang.org/x/term"

	"github.com/berryray-tech/Berry-Ray-main/cmd/buildCFG"
	"github.com/berryray-tech/Berry-Ray-main/internal/auth"
	"github.com/berryray-tech/Berry-Ray-main/internal/model"
	"github.com/berryray-tech/Berry-Ray-main/internal/repo"
)

const usage = `usage: admin <command> [flags]

commands:
  adduser -email E      create an account, the password is read from the terminal
  grant-admin -email E  add an existing account to the admins table
  migrate up|down       apply or roll back migrations/postgres`

type store interface {
	CreateAccount(ctx context.Context, email string, passwordHash []byte) (*model.Account, error)
	FindAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	InsertAdmin(ctx context.Context, userID string) error
	MigrateUp(ctx context.Context, migrationsDir string) error
	MigrateDown(ctx context.Context, migrationsDir string) error
}

var readPasswordFunc = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

type cli struct {
	store         store
	out           io.Writer
	migrationsDir string
	bcryptCost    int
	log           *zerolog.Logger
}

func main() {
	zlog.Init()
	log := zlog.Logger

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.New()
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if err := cfg.Load(path, os.Getenv("ENV_FILE"), "BERRY"); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	master, slaves, opts, err := buildCFG.BuildDBConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build DB config")
	}
	db, err := dbpg.New(master, slaves, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to DB")
	}
	defer db.Master.Close()

	repository, err := repo.NewRepository(db, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize repository")
	}

	c := &cli{
		store:         repository,
		out:           os.Stdout,
		migrationsDir: buildCFG.BuildFlowConfig(cfg).MigrationsDir,
		bcryptCost:    cfg.GetInt("auth.bcrypt_cost"),
		log:           &log,
	}
	if err := c.run(context.Background(), os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	switch args[0] {
	case "adduser":
		return c.addUser(ctx, args[1:])
	case "grant-admin":
		return c.grantAdmin(ctx, args[1:])
	case "migrate":
		return c.migrate(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func emailFlag(name string, args []string) (string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "account e-mail")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	e := auth.NormalizeEmail(*email)
	if e == "" {
		return "", fmt.Errorf("%s: -email is required", name)
	}
	return e, nil
}

func (c *cli) addUser(ctx context.Context, args []string) error {
	email, err := emailFlag("adduser", args)
	if err != nil {
		return err
	}

	fmt.Fprint(c.out, "Password: ")
	password, err := readPasswordFunc()
	fmt.Fprintln(c.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	hash, err := auth.HashPassword(password, c.bcryptCost)
	if err != nil {
		return err
	}

	acc, err := c.store.CreateAccount(ctx, email, hash)
	if errors.Is(err, repo.ErrDuplicate) {
		return auth.ErrAccountExists
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created account %s (%s)\n", acc.Email, acc.ID)
	return nil
}

func (c *cli) grantAdmin(ctx context.Context, args []string) error {
	email, err := emailFlag("grant-admin", args)
	if err != nil {
		return err
	}

	acc, err := c.store.FindAccountByEmail(ctx, email)
	if errors.Is(err, repo.ErrNoRows) {
		return fmt.Errorf("no account with e-mail %s", email)
	}
	if err != nil {
		return err
	}

	if err := c.store.InsertAdmin(ctx, acc.ID.String()); err != nil && !errors.Is(err, repo.ErrDuplicate) {
		return err
	}
	c.log.Info().Str("user_id", acc.ID.String()).Msg("admin granted")
	fmt.Fprintf(c.out, "%s is now an admin\n", acc.Email)
	return nil
}

func (c *cli) migrate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("migrate: expected up or down")
	}
	switch args[0] {
	case "up":
		return c.store.MigrateUp(ctx, c.migrationsDir)
	case "down":
		c.log.Warn().Str("dir", c.migrationsDir).Msg("rolling back all migrations")
		return c.store.MigrateDown(ctx, c.migrationsDir)
	default:
		return fmt.Errorf("migrate: unknown direction %q", args[0])
	}
}
