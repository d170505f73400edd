// Command admin runs one-off maintenance tasks against the database.
//
//	admin migrate
//	admin useradd <email> <name> <password> [role]
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/irsalhamdi/eduverse/config"
	"github.com/irsalhamdi/eduverse/core/auth"
	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/core/user"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type adminConfig struct {
	conf.Version
	Args conf.Args
	DB   config.DB
}

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(log *logrus.Logger) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg := adminConfig{
		Version: conf.Version{Desc: "eduverse admin tool"},
	}

	help, err := conf.Parse("EDUVERSE", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open db connection: %w", err)
	}
	defer db.Close()

	switch cfg.Args.Num(0) {
	case "migrate":
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info("migrations complete")

	case "useradd":
		u, err := userAdd(context.Background(), db, cfg.Args[1:])
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user created")

	default:
		return fmt.Errorf("unknown command %q, use migrate or useradd", cfg.Args.Num(0))
	}

	return nil
}

func userAdd(ctx context.Context, db *sqlx.DB, args []string) (user.User, error) {
	if len(args) < 3 {
		return user.User{}, errors.New("usage: useradd <email> <name> <password> [role]")
	}

	role := claims.RoleUser
	if len(args) > 3 {
		role = strings.ToUpper(args[3])
	}

	switch role {
	case claims.RoleUser, claims.RoleInstructor, claims.RoleAdmin:
	default:
		return user.User{}, fmt.Errorf("unknown role %q", role)
	}

	u, err := auth.NewUser(args[1], args[0], args[2], role, time.Now().UTC())
	if err != nil {
		return user.User{}, err
	}

	if err := user.Create(ctx, db, u); err != nil {
		return user.User{}, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}
