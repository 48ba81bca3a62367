package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"resume-insights/internal/api"
	"resume-insights/internal/dashboard"
	"resume-insights/internal/poll"
	"resume-insights/internal/session"
	"resume-insights/internal/shared/config"
	"resume-insights/internal/shared/telemetry"
	uidash "resume-insights/internal/ui/dashboard"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles the client-side services every subcommand needs.
type app struct {
	sessions *session.Store
	service  *dashboard.Service
}

func loadApp() *app {
	cfg := config.Load()
	client := api.New(cfg.APIBaseURL, cfg.HTTPTimeout)
	sessions := session.NewStore(client, &session.File{Path: cfg.SessionFile})
	sessions.Restore()
	return &app{
		sessions: sessions,
		service:  dashboard.NewService(client, sessions),
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "Resume analysis dashboard client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newLoginCmd())
	root.AddCommand(newRegisterCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newWhoamiCmd())
	root.AddCommand(newUploadCmd())
	root.AddCommand(newSummaryCmd())
	root.AddCommand(newAnalysisCmd())
	root.AddCommand(newUICmd())
	return root
}

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email, err = promptIfEmpty(cmd, email, "Email: "); err != nil {
				return err
			}
			if password, err = promptIfEmpty(cmd, password, "Password: "); err != nil {
				return err
			}

			a := loadApp()
			cred, err := a.sessions.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			cmd.Printf("Logged in as %s (%s)\n", cred.User.FullName, cred.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var fullName, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if fullName, err = promptIfEmpty(cmd, fullName, "Full name: "); err != nil {
				return err
			}
			if email, err = promptIfEmpty(cmd, email, "Email: "); err != nil {
				return err
			}
			if password, err = promptIfEmpty(cmd, password, "Password: "); err != nil {
				return err
			}

			a := loadApp()
			cred, err := a.sessions.Register(cmd.Context(), fullName, email, password)
			if err != nil {
				return err
			}
			cmd.Printf("Welcome, %s. You are now logged in.\n", cred.User.FullName)
			return nil
		},
	}
	cmd.Flags().StringVar(&fullName, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := loadApp()
			a.sessions.Logout()
			cmd.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := loadApp()
			cred, ok := a.sessions.Current()
			if !ok {
				cmd.Println("Not logged in.")
				return nil
			}
			if user, err := a.sessions.RefreshProfile(cmd.Context()); err == nil && user != nil {
				cmd.Printf("%s (%s)\n", user.FullName, user.Email)
				return nil
			}
			cmd.Printf("%s (%s)\n", cred.User.FullName, cred.User.Email)
			return nil
		},
	}
}

func newUploadCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a resume and trigger its analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			a := loadApp()
			upload, watchSession, err := a.service.UploadAndAnalyze(cmd.Context(), filepath.Base(args[0]), data)
			if err != nil {
				return err
			}
			cmd.Printf("Uploaded %s (resume %s), analysis started.\n", upload.Filename, upload.ID)

			if !watch {
				a.service.CancelPolling()
				cmd.Printf("Run \"dashboard analysis %s\" to check the result.\n", upload.ID)
				return nil
			}

			cmd.Println("Waiting for the analysis to finish...")
			if watchSession.Wait() == poll.Abandoned {
				cmd.Println("The analysis did not finish in time. Try \"dashboard analysis\" later.")
				return nil
			}
			printResult(cmd, watchSession.Result())
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "wait for the analysis result")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the feedback summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := loadApp()
			if err := a.service.RefreshSummary(cmd.Context()); err != nil {
				return err
			}
			summary, ok := a.service.Summary()
			if !ok {
				cmd.Println("No feedback yet. Upload a resume to get started.")
				return nil
			}

			cmd.Printf("Resumes uploaded: %d\n", summary.TotalResumes)
			cmd.Printf("Trend: %s\n", summary.ImprovementTrend)
			if summary.AvgScore != nil {
				cmd.Printf("Average score: %.1f\n", *summary.AvgScore)
			}
			if summary.LatestAnalysis != nil {
				cmd.Println("\nLatest analysis:")
				printResult(cmd, summary.LatestAnalysis)
			}
			return nil
		},
	}
}

func newAnalysisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analysis <resume-id>",
		Short: "Wait for and show a resume's analysis result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := loadApp()
			watchSession, err := a.service.WatchAnalysis(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if watchSession.Wait() == poll.Abandoned {
				cmd.Println("The analysis is not ready yet. Try again in a moment.")
				return nil
			}
			printResult(cmd, watchSession.Result())
			return nil
		},
	}
}

func newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := loadApp()
			if _, ok := a.sessions.Current(); !ok {
				return fmt.Errorf("not logged in, run \"dashboard login\" first")
			}
			// The TUI owns the terminal; a stray log line would corrupt the
			// alt screen.
			telemetry.SetOutput(io.Discard)
			defer telemetry.SetOutput(os.Stdout)
			return uidash.Run(a.service, a.sessions)
		},
	}
}

func printResult(cmd *cobra.Command, result *api.AnalysisResult) {
	if result == nil {
		cmd.Println("No analysis result available.")
		return
	}
	if result.OverallScore != nil {
		cmd.Printf("Overall score: %.0f/100\n", *result.OverallScore)
	} else {
		cmd.Println("Overall score: not available")
	}
	printList(cmd, "Strengths", result.Strengths)
	printList(cmd, "Weaknesses", result.Weaknesses)
	printList(cmd, "Recommendations", result.Recommendations)
}

func printList(cmd *cobra.Command, title string, items []string) {
	if len(items) == 0 {
		return
	}
	cmd.Printf("%s:\n", title)
	for _, item := range items {
		cmd.Printf("  - %s\n", item)
	}
}

// promptIfEmpty reads a value from stdin when the flag was not provided.
func promptIfEmpty(cmd *cobra.Command, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	cmd.Print(prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("a value is required")
	}
	return line, nil
}
