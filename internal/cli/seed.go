package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	pgRepo "github.com/yourusername/leadership-api/internal/repository/postgres"
	"github.com/yourusername/leadership-api/internal/service"
)

// NewSeedCmd создает начальные данные
func NewSeedCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create initial data",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "admin",
		Short: "Create the default admin when no admin exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeedService(*configPath, func(s *service.SeedService) error {
				created, err := s.EnsureDefaultAdmin()
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", service.DefaultAdminEmail)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "admin already exists")
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "demo",
		Short: "Create demo users, game, teams and tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeedService(*configPath, func(s *service.SeedService) error {
				created, err := s.SeedDemoData()
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintln(cmd.OutOrStdout(), "demo data created")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "demo data already present")
				}
				return nil
			})
		},
	})

	return cmd
}

func withSeedService(configPath string, fn func(s *service.SeedService) error) error {
	_, db, err := openDB(configPath)
	if err != nil {
		return err
	}
	defer closeDB(db)

	err = fn(newSeedService(db))
	if err != nil {
		log.Error().Err(err).Str("component", "Seed").Msg("seeding failed")
	}
	return err
}

func newSeedService(db *gorm.DB) *service.SeedService {
	return service.NewSeedService(
		pgRepo.NewUserRepo(db),
		pgRepo.NewGameRepo(db),
		pgRepo.NewTeamRepo(db),
		pgRepo.NewTaskRepo(db),
	)
}
