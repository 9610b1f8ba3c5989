package commands

import (
	"fmt"
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func newReconcileCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Bank reconciliation",
	}
	cmd.AddCommand(newAutoMatchCommand(rt))
	return cmd
}

func newAutoMatchCommand(rt *runtime) *cobra.Command {
	var companyID, bankAccountID, userID, from, to string

	cmd := &cobra.Command{
		Use:   "auto-match",
		Short: "Match unreconciled statement lines to bank journals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, err := parseRange(from, to)
			if err != nil {
				return err
			}
			return rt.withServices(cmd.Context(), func(svc *portssvc.ServiceContainer) error {
				recs, err := svc.Reconciliation.AutoMatch(cmd.Context(), companyID, bankAccountID, dates, userID)
				if err != nil {
					return fmt.Errorf("auto-match: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), dto.AutoMatchResponse{MatchedCount: len(recs), Reconciliations: recs})
			})
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "company id (required)")
	_ = cmd.MarkFlagRequired("company")
	cmd.Flags().StringVar(&bankAccountID, "bank-account", "", "bank account id (required)")
	_ = cmd.MarkFlagRequired("bank-account")
	cmd.Flags().StringVar(&userID, "user", "", "acting user id (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().StringVar(&from, "from", "", "first statement date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last statement date, YYYY-MM-DD")

	return cmd
}

func parseRange(from, to string) (domain.DateRange, error) {
	var dates domain.DateRange
	var err error
	if from != "" {
		if dates.From, err = time.Parse(dateLayout, from); err != nil {
			return dates, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if to != "" {
		if dates.To, err = time.Parse(dateLayout, to); err != nil {
			return dates, fmt.Errorf("invalid --to: %w", err)
		}
	}
	if !dates.From.IsZero() && !dates.To.IsZero() && dates.To.Before(dates.From) {
		return dates, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return dates, nil
}
