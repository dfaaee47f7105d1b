package cmd

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"cardmarket.GO/config"
)

var (
	migrationsPath string
	migrateDown    bool
	migrateSteps   int
)

var migrateCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Run database schema migrations",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}
		sqldb, err := db.DB()
		if err != nil {
			fmt.Printf("Failed to get DB instance: %v\n", err)
			return
		}

		driver, err := mysql.WithInstance(sqldb, &mysql.Config{})
		if err != nil {
			fmt.Printf("Migration driver init failed: %v\n", err)
			return
		}
		m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "mysql", driver)
		if err != nil {
			fmt.Printf("Migration setup failed: %v\n", err)
			return
		}

		switch {
		case migrateSteps != 0:
			err = m.Steps(migrateSteps)
		case migrateDown:
			err = m.Down()
		default:
			err = m.Up()
		}
		if err != nil && err != migrate.ErrNoChange {
			fmt.Printf("Migration failed: %v\n", err)
			return
		}

		version, dirty, verr := m.Version()
		if verr != nil && verr != migrate.ErrNilVersion {
			fmt.Printf("Migration done, version unknown: %v\n", verr)
			return
		}
		fmt.Printf("Migration done. Version: %d, dirty: %v\n", version, dirty)
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsPath, "path", "migrations", "Path to migration files")
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back all migrations")
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 0, "Apply N migrations (negative rolls back)")
	rootCmd.AddCommand(migrateCmd)
}
