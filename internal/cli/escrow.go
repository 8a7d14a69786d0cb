package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/decentpay/escrowkit/internal/service/escrow"
	ekerr "github.com/decentpay/escrowkit/pkg/errors"
)

// escrowCmd groups escrow record lookups.
var escrowCmd = &cobra.Command{
	Use:   "escrow",
	Short: "Inspect escrow records",
}

var escrowGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one escrow record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseEscrowID(args[0])
		if err != nil {
			return err
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		data, err := s.Escrow.GetEscrow(cmd.Context(), id)
		if err != nil {
			return err
		}

		if formatter.IsJSON() {
			return formatter.Print(data)
		}
		return printEscrowText(data)
	},
}

var escrowMilestonesCmd = &cobra.Command{
	Use:   "milestones <id>",
	Short: "List the milestones of an escrow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseEscrowID(args[0])
		if err != nil {
			return err
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		milestones, err := s.Escrow.GetMilestones(cmd.Context(), id)
		if err != nil {
			return err
		}

		if formatter.IsJSON() {
			return formatter.Print(milestones)
		}
		rows := make([][]string, 0, len(milestones))
		for _, m := range milestones {
			rows = append(rows, []string{
				strconv.FormatUint(uint64(m.Index), 10), string(m.Status), m.Amount.String(), m.Description,
			})
		}
		return formatter.Table(rows)
	},
}

var escrowNextIDCmd = &cobra.Command{
	Use:   "next-id",
	Short: "Show the id the next created escrow will get",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		id := s.Escrow.NextEscrowID(cmd.Context())
		if formatter.IsJSON() {
			return formatter.Print(map[string]uint32{"next_escrow_id": id})
		}
		return formatter.Println(id)
	},
}

var escrowApplicationsCmd = &cobra.Command{
	Use:   "applications <id>",
	Short: "List applications to an open job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseEscrowID(args[0])
		if err != nil {
			return err
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		apps, err := s.Escrow.GetApplications(cmd.Context(), id)
		if err != nil {
			return err
		}

		if formatter.IsJSON() {
			return formatter.Print(apps)
		}
		for _, a := range apps {
			_ = formatter.Printf("%s  %d  %s\n", a.Freelancer, a.ProposedTimeline, a.CoverLetter)
		}
		return nil
	},
}

func parseEscrowID(arg string) (uint32, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, ekerr.WithDetails(
			ekerr.Wrap(ekerr.ErrValidationFailed, "escrow id must be a positive integer"),
			map[string]string{"value": arg},
		)
	}
	return uint32(id), nil
}

func printEscrowText(data *escrow.EscrowData) error {
	_ = formatter.Printf("Escrow #%d: %s\n", data.ID, data.ProjectTitle)
	_ = formatter.Printf("  Status:       %s\n", data.Status)
	_ = formatter.Printf("  Depositor:    %s\n", data.Depositor)
	if data.Beneficiary != "" {
		_ = formatter.Printf("  Beneficiary:  %s\n", data.Beneficiary)
	}
	_ = formatter.Printf("  Total:        %s\n", data.TotalAmount)
	_ = formatter.Printf("  Paid:         %s\n", data.PaidAmount)
	_ = formatter.Printf("  Milestones:   %d\n", data.MilestoneCount)
	_ = formatter.Printf("  Deadline:     %d\n", data.Deadline)
	if data.IsOpenJob {
		_ = formatter.Println("  Open job accepting applications")
	}
	return nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	escrowCmd.AddCommand(escrowGetCmd)
	escrowCmd.AddCommand(escrowMilestonesCmd)
	escrowCmd.AddCommand(escrowNextIDCmd)
	escrowCmd.AddCommand(escrowApplicationsCmd)
	rootCmd.AddCommand(escrowCmd)
}
