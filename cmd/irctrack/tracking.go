package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"irctrack/internal/modules/tracking/dto"
)

func newRequestCmd(dataDir *string) *cobra.Command {
	request := &cobra.Command{Use: "request", Short: "Request commands"}

	request.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List requests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			requests, err := app.TrackingCLI.ListRequests(context.Background())
			if err != nil {
				return err
			}
			if len(requests) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no requests")
				return nil
			}
			for _, r := range requests {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\t%.2f\n",
					r.ID, r.SubmittedAt, r.StatusLabel, r.Service, r.Requester, r.EstimatedCost)
			}
			return nil
		},
	})

	var in dto.AddRequestInput
	var cost float64
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a new request",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			input := in
			if cmd.Flags().Changed("cost") {
				input.EstimatedCost = &cost
			}
			out, err := app.TrackingCLI.AddRequest(context.Background(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s) estimated %.2f\n", out.ID, out.Category, out.EstimatedCost)
			return nil
		},
	}
	f := add.Flags()
	f.StringVar(&in.Service, "service", "", "service name")
	f.StringVar(&in.Category, "category", "", "irradiation|dosimetry|counter|waste (defaults from the service name)")
	f.StringVar(&in.UserType, "user-type", "UCM", "UCM|OPI")
	f.Float64Var(&cost, "cost", 0, "estimated cost (defaults to the tariff price)")
	f.StringVar(&in.Name, "name", "", "requester name")
	f.StringVar(&in.Email, "email", "", "requester e-mail")
	f.StringVar(&in.Phone, "phone", "", "requester phone")
	f.StringVar(&in.Organisation, "organisation", "", "requester organisation")
	f.StringVar(&in.Department, "department", "", "requester department")
	f.StringVar(&in.PrincipalInvestigator, "pi", "", "principal investigator")
	f.StringVar(&in.BillingOrganisation, "billing-organisation", "", "billing organisation")
	f.StringVar(&in.BillingDepartment, "billing-department", "", "billing department")
	f.StringVar(&in.CIF, "cif", "", "tax id")
	f.StringVar(&in.FiscalAddress, "fiscal-address", "", "fiscal address")
	f.StringVar(&in.PostalAddress, "postal-address", "", "postal address")
	f.StringVar(&in.AccountingOffice, "accounting-office", "", "accounting office")
	f.StringVar(&in.ManagingBody, "managing-body", "", "managing body")
	f.StringVar(&in.ManagingCentre, "managing-centre", "", "managing centre")
	f.StringVar(&in.Project, "project", "", "project")
	f.StringVar(&in.AccountingNumber, "accounting-number", "", "accounting number")
	f.StringVar(&in.Observations, "observations", "", "free-text observations")
	f.IntVar(&in.Canisters, "canisters", 0, "irradiation: canisters")
	f.Float64Var(&in.DosePerCanisterGy, "dose-gy", 0, "irradiation: dose per canister in Gy")
	f.IntVar(&in.Irradiations, "irradiations", 0, "irradiation: number of irradiations")
	f.IntVar(&in.Months, "months", 0, "dosimetry: months")
	f.IntVar(&in.Dosimeters, "dosimeters", 0, "dosimetry: dosimeters")
	f.Float64Var(&in.Hours, "hours", 0, "counter: hours")
	f.StringVar(&in.WasteDescription, "waste", "", "waste management: description")
	request.AddCommand(add)

	request.AddCommand(&cobra.Command{
		Use:   "status <request-id> <status>",
		Short: "Set the stored status of a request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.TrackingCLI.UpdateStatus(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", out.ID, out.StatusLabel)
			return nil
		},
	})

	request.AddCommand(&cobra.Command{
		Use:   "normalize",
		Short: "Rewrite legacy status texts with the canonical labels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.TrackingCLI.NormalizeStatuses(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rewrote %d requests\n", len(out.Rewritten))
			for _, id := range out.Rewritten {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	})
	return request
}

func bindSessionFlags(cmd *cobra.Command, in *dto.SessionInput, kind string) {
	f := cmd.Flags()
	f.StringVar(&in.RequestID, "request-id", "", "parent request id")
	f.StringVar(&in.Date, "date", "", "session date (YYYY-MM-DD, defaults to today)")
	f.StringVar(&in.Kind, "kind", kind, "performed|planned")
	f.Float64Var(&in.Units, "units", 0, "units processed (canisters)")
	f.Float64Var(&in.DoseGy, "dose-gy", 0, "dose delivered in Gy")
	f.StringVar(&in.MonthTag, "month", "", "dosimetry month (YYYY-MM)")
	f.IntVar(&in.Dosimeters, "dosimeters", 0, "dosimeters read")
	f.Float64Var(&in.Hours, "hours", 0, "counter hours used")
	f.StringVar(&in.WasteDescription, "waste", "", "waste handled")
	f.StringVar(&in.Notes, "notes", "", "notes")
	f.StringVar(&in.Operator, "operator", "", "operator")
	f.Float64Var(&in.Cost, "cost", 0, "session cost")
}

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Work session commands"}

	var requestID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions, optionally for one request",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			sessions, err := app.TrackingCLI.ListSessions(context.Background(), requestID)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range sessions {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n", s.ID, s.RequestID, s.Date, s.Kind, s.Service)
			}
			return nil
		},
	}
	list.Flags().StringVar(&requestID, "request-id", "", "filter by request id")
	session.AddCommand(list)

	var addIn dto.SessionInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a performed or planned session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.TrackingCLI.AddSession(context.Background(), addIn)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s for %s on %s\n", out.ID, out.RequestID, out.Date)
			return nil
		},
	}
	bindSessionFlags(add, &addIn, "performed")
	session.AddCommand(add)

	var updateIn dto.SessionInput
	update := &cobra.Command{
		Use:   "update <session-id>",
		Short: "Replace a session row; omitted date, kind and request keep their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			input := updateIn
			input.ID = args[0]
			out, err := app.TrackingCLI.UpdateSession(context.Background(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", out.ID)
			return nil
		},
	}
	bindSessionFlags(update, &updateIn, "")
	session.AddCommand(update)

	session.AddCommand(&cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.TrackingCLI.DeleteSession(context.Background(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	})
	return session
}
