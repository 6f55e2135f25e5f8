package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/consent"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagConsentScope string
	flagConsentAll   bool
)

var consentCmd = &cobra.Command{
	Use:   "consent [status|reset]",
	Short: "Inspect or clear stored cookie consent",
	Long: `Show or forget the cookie consent and sponsor choices.

Local games use the "local" scope; SSH players use "ssh:<user>".

Examples:
  snake consent
  snake consent status --scope ssh:alice
  snake consent reset
  snake consent reset --all --scope ssh:alice`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"status", "reset"},
	RunE:      runConsent,
}

func init() {
	consentCmd.Flags().StringVar(&flagConsentScope, "scope", "local", "Preference scope")
	consentCmd.Flags().BoolVar(&flagConsentAll, "all", false, "On reset, delete every preference in the scope")
}

func runConsent(cmd *cobra.Command, args []string) error {
	action := "status"
	if len(args) == 1 {
		action = args[0]
	}
	if action != "status" && action != "reset" {
		return fmt.Errorf("unknown action %q (want status or reset)", action)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening preferences database: %w", err)
	}
	defer store.Close()

	// Only warnings: consent updates are printed below instead
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "snake", Level: log.WarnLevel})
	cm := consent.NewManager(store, cfg, consent.Options{
		Scope:  flagConsentScope,
		Logger: logger,
	})

	out := cmd.OutOrStdout()
	if action == "status" {
		return printConsentStatus(out, store, cm, flagConsentScope)
	}

	if err := cm.Reset(); err != nil {
		return err
	}
	if flagConsentAll {
		if err := store.DeletePrefix(consent.ScopedKey(flagConsentScope, "")); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "Cleared consent for scope %q\n", flagConsentScope)
	return nil
}

func printConsentStatus(w io.Writer, store *storage.Store, cm *consent.Manager, scope string) error {
	now := time.Now()
	if _, err := store.PurgeExpired(now); err != nil {
		return err
	}

	state := cm.Check()

	fmt.Fprintf(w, "Scope:    %s\n", scope)
	fmt.Fprintf(w, "Consent:  %s\n", state)
	fmt.Fprintf(w, "Sponsor:  %s\n", sponsorStatus(cm))
	fmt.Fprintln(w)

	prefs, err := store.Preferences(consent.ScopedKey(scope, ""), now)
	if err != nil {
		return err
	}
	if len(prefs) == 0 {
		fmt.Fprintln(w, "No stored preferences.")
		return nil
	}

	fmt.Fprintf(w, "  %-40s  %-10s  %s\n", "Key", "Value", "Expires")
	fmt.Fprintf(w, "  %-40s  %-10s  %s\n", "---", "-----", "-------")
	for _, p := range prefs {
		expires := "never"
		if !p.ExpiresAt.IsZero() {
			expires = p.ExpiresAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "  %-40s  %-10s  %s\n", p.Key, p.Value, expires)
	}
	return nil
}

func sponsorStatus(cm *consent.Manager) string {
	switch {
	case cm.SponsorClosed():
		return "closed"
	case cm.SponsorEligible():
		return "eligible"
	default:
		return "hidden"
	}
}
