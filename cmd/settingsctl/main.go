package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"talkpad/internal/app"
	"talkpad/internal/domain"
)

// consolePrompt satisfies the challenge prompt contract for headless use.
// Challenges are answered with -passcode instead of a dialog.
type consolePrompt struct {
	attempt app.ChallengeAttempt
	shown   bool
}

func (p *consolePrompt) Show(attempt app.ChallengeAttempt) {
	p.attempt = attempt
	p.shown = true
}

func (p *consolePrompt) Reject(app.ChallengeAttempt) {}
func (p *consolePrompt) Hide()                       {}

type consoleHost struct{}

func (consoleHost) ScreenOpened(d domain.SettingsDomain) {
	slog.Info("screen opened", "domain", d)
}

func (consoleHost) ScreenClosed(d domain.SettingsDomain) {
	slog.Info("screen closed", "domain", d)
}

func main() {
	if err := run(); err != nil {
		slog.Error("run settingsctl", "error", err)
		os.Exit(1)
	}
}

func run() error {
	show := flag.String("show", "", "print a domain's stored settings (display, selection_mode, parental, voice)")
	resetDomain := flag.String("reset-domain", "", "delete a domain's stored settings so defaults apply")
	setPasscode := flag.String("set-passcode", "", "store a new parental passcode")
	verify := flag.String("verify", "", "check a passcode candidate against the stored credential")
	passcode := flag.String("passcode", "", "passcode used to open the parental domain with -show parental")
	clearPasscode := flag.Bool("clear-passcode", false, "remove the stored parental passcode")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prompt := &consolePrompt{}
	rt, err := app.Initialize(ctx, prompt, consoleHost{})
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer func() {
		if closeErr := rt.Close(); closeErr != nil {
			slog.Warn("close runtime", "error", closeErr)
		}
	}()

	if err := rt.Menu.Activate(ctx); err != nil {
		return fmt.Errorf("activate menu: %w", err)
	}

	switch {
	case *setPasscode != "":
		if err := rt.Menu.SetPasscode(ctx, *setPasscode); err != nil {
			return fmt.Errorf("set passcode: %w", err)
		}
		fmt.Println("passcode stored")
	case *clearPasscode:
		if err := rt.Menu.ClearPasscode(ctx); err != nil {
			return fmt.Errorf("clear passcode: %w", err)
		}
		fmt.Println("passcode removed")
	case *verify != "":
		ok, err := rt.Vault.Verify(ctx, *verify)
		if err != nil {
			return fmt.Errorf("verify passcode: %w", err)
		}
		fmt.Println("match:", ok)
	case *resetDomain != "":
		d := domain.SettingsDomain(strings.TrimSpace(*resetDomain))
		if err := rt.SettingsRepo.ResetDomain(ctx, d); err != nil {
			return fmt.Errorf("reset domain: %w", err)
		}
		fmt.Println("reset:", d)
	case *show != "":
		return showDomain(ctx, rt, prompt, domain.SettingsDomain(strings.TrimSpace(*show)), *passcode)
	default:
		flag.Usage()
	}

	return nil
}

func showDomain(ctx context.Context, rt *app.Runtime, prompt *consolePrompt, d domain.SettingsDomain, passcode string) error {
	if !d.Valid() {
		return fmt.Errorf("unknown settings domain %q", d)
	}

	var record any
	switch d {
	case domain.DomainDisplay:
		record = rt.Menu.Display()
	case domain.DomainSelectionMode:
		record = rt.Menu.Selection()
	case domain.DomainVoice:
		record = rt.Menu.Voice()
	case domain.DomainParental:
		if err := openParental(ctx, rt, prompt, passcode); err != nil {
			return err
		}
		record = rt.Menu.Parental()
	}
	rt.Menu.DiscardAndCloseActive()

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s settings: %w", d, err)
	}
	fmt.Println(string(out))
	rt.RememberOpenedDomain(string(d))

	return nil
}

// openParental walks the protected domain through the access gate, answering
// a challenge with the -passcode flag when one is required.
func openParental(ctx context.Context, rt *app.Runtime, prompt *consolePrompt, passcode string) error {
	err := rt.Menu.OpenDomain(ctx, domain.DomainParental)
	if err != nil {
		return fmt.Errorf("open parental settings: %w", err)
	}
	if !prompt.shown {
		return nil
	}
	if passcode == "" {
		rt.Menu.Gate().Cancel(prompt.attempt.ID)

		return fmt.Errorf("parental settings require a passcode: pass -passcode")
	}
	if err := rt.Menu.Gate().Submit(ctx, prompt.attempt.ID, passcode); err != nil {
		rt.Menu.Gate().Cancel(prompt.attempt.ID)

		return fmt.Errorf("unlock parental settings: %w", err)
	}

	return nil
}
