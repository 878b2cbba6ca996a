package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	pgRepo "github.com/yourusername/leadership-api/internal/repository/postgres"
	"github.com/yourusername/leadership-api/internal/service"
)

// NewRecalcPointsCmd пересчитывает очки команд из оцененных отправок
func NewRecalcPointsCmd(configPath *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "recalc-points",
		Short: "Recompute team points from evaluated submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDB(*configPath)
			if err != nil {
				return err
			}
			defer closeDB(db)
			return recalcPoints(db, dryRun, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only report drift, do not update teams")
	return cmd
}

func recalcPoints(db *gorm.DB, dryRun bool, out io.Writer) error {
	ledger := service.NewScoreLedger(pgRepo.NewTeamRepo(db), pgRepo.NewSubmissionRepo(db), db)
	drifts, err := ledger.Recalculate(dryRun)
	if err != nil {
		return err
	}

	if len(drifts) == 0 {
		fmt.Fprintln(out, "no drift found")
		return nil
	}
	for _, d := range drifts {
		fmt.Fprintf(out, "team %d: stored %d, expected %d\n", d.TeamID, d.Stored, d.Expected)
	}
	if dryRun {
		fmt.Fprintf(out, "%d team(s) drifted, nothing changed\n", len(drifts))
	} else {
		fmt.Fprintf(out, "%d team(s) corrected\n", len(drifts))
	}
	return nil
}
