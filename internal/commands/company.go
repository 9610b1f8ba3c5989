package commands

import (
	"fmt"

	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/dto"
	"github.com/spf13/cobra"
)

func newCompanyCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Manage companies",
	}
	cmd.AddCommand(newCompanyCreateCommand(rt), newSeedAccountsCommand(rt))
	return cmd
}

func newCompanyCreateCommand(rt *runtime) *cobra.Command {
	var req dto.CreateCompanyRequest
	var userID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a company with the standard chart of accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withServices(cmd.Context(), func(svc *portssvc.ServiceContainer) error {
				company, err := svc.Company.CreateCompany(cmd.Context(), req, userID)
				if err != nil {
					return fmt.Errorf("creating company: %w", err)
				}
				return printJSON(cmd.OutOrStdout(), dto.ToCompanyResponse(company))
			})
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "company name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&req.TaxID, "tax-id", "", "tax identification number")
	cmd.Flags().StringVar(&req.Address, "address", "", "registered address")
	cmd.Flags().StringVar(&userID, "user", "", "owner user id (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newSeedAccountsCommand(rt *runtime) *cobra.Command {
	var companyID, userID string

	cmd := &cobra.Command{
		Use:   "seed-accounts",
		Short: "Create the standard accounts a company is missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withServices(cmd.Context(), func(svc *portssvc.ServiceContainer) error {
				created, err := svc.Account.SeedCoreAccounts(cmd.Context(), companyID, userID)
				if err != nil {
					return fmt.Errorf("seeding accounts: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d accounts\n", created)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "company id (required)")
	_ = cmd.MarkFlagRequired("company")
	cmd.Flags().StringVar(&userID, "user", "", "acting user id (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
