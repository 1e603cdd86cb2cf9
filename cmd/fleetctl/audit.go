package main

import (
	"context"
	"encoding/json"
	"fmt"

	auditapp "github.com/fleet/backend/internal/application/audit"
	"github.com/fleet/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	var (
		limit  int
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report items whose invoice belongs to another purchase order",
		Long: "Runs the integrity audit once and prints the report as JSON. " +
			"Nothing is repaired.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := envFrom(cmd)
			db, err := openDatabase(cmd.Context(), e)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if limit <= 0 {
				limit = e.cfg.Audit.Limit
			}
			ctx := cmd.Context()
			if e.cfg.Audit.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, e.cfg.Audit.Timeout)
				defer cancel()
			}

			svc := auditapp.NewService(persistence.NewGormAssignmentRepository(db.DB), limit, e.log)
			report, err := svc.Run(ctx)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if strict && len(report.Offenders) > 0 {
				return fmt.Errorf("%d inconsistent item(s) found", len(report.Offenders))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "max offenders to report; defaults to audit.limit")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when offenders are found")
	return cmd
}
