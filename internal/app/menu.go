package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"talkpad/internal/bus"
	"talkpad/internal/domain"
	"talkpad/internal/persistence"
	"talkpad/internal/vault"
)

// MenuState is the coarse lifecycle of the settings menu.
type MenuState string

const (
	MenuLoading MenuState = "loading"
	MenuReady   MenuState = "ready"
)

var (
	ErrMenuNotReady   = errors.New("settings menu is still loading")
	ErrScreenActive   = errors.New("another settings screen is already open")
	ErrNoActiveScreen = errors.New("no settings screen is open")
)

// ScreenHost is the navigation collaborator: it renders whatever screen the
// menu opens and tears it down on close. Rendering itself is out of scope.
type ScreenHost interface {
	ScreenOpened(d domain.SettingsDomain)
	ScreenClosed(d domain.SettingsDomain)
}

// MenuController owns the authoritative in-memory copy of every domain's last
// committed settings, gates protected screens through the access gate, and
// writes commits through the repository. Only one settings screen may be open
// at a time, which makes each domain single-writer.
type MenuController struct {
	mu               sync.Mutex
	state            MenuState
	display          domain.DisplaySettings
	selection        domain.SelectionSettings
	parental         domain.ParentalSettings
	voice            domain.VoiceSettings
	credentialExists bool
	noticeShown      map[NoticeKind]bool

	activeDomain   domain.SettingsDomain
	displayDraft   *DraftReconciler[domain.DisplaySettings]
	selectionDraft *DraftReconciler[domain.SelectionSettings]
	parentalEditor *ParentalEditor

	repo   *persistence.SettingsRepo
	vault  vault.CredentialVault
	gate   *AccessGate
	bus    bus.MessageBus
	host   ScreenHost
	logger *slog.Logger
}

func NewMenuController(
	repo *persistence.SettingsRepo,
	credentialVault vault.CredentialVault,
	prompt ChallengePrompt,
	host ScreenHost,
	messageBus bus.MessageBus,
	logger *slog.Logger,
) *MenuController {
	if logger == nil {
		logger = slog.Default().With("component", "app.menu")
	}

	m := &MenuController{
		state:       MenuLoading,
		noticeShown: make(map[NoticeKind]bool),
		repo:        repo,
		vault:       credentialVault,
		bus:         messageBus,
		host:        host,
		logger:      logger,
	}
	m.gate = NewAccessGate(m.checkRequirement, credentialVault, prompt, messageBus, m.openScreen, logger)

	return m
}

// Gate exposes the access gate so the prompt collaborator can submit and
// cancel challenge attempts.
func (m *MenuController) Gate() *AccessGate {
	return m.gate
}

// Activate loads every settings domain and the credential existence state
// concurrently; the menu reports ready only after all of them resolved
// (each falling back to its default on failure).
func (m *MenuController) Activate(ctx context.Context) error {
	m.mu.Lock()
	m.state = MenuLoading
	m.mu.Unlock()

	var (
		display          domain.DisplaySettings
		selection        domain.SelectionSettings
		parental         domain.ParentalSettings
		voice            domain.VoiceSettings
		credentialExists bool
	)

	g, loadCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		display = m.repo.LoadDisplay(loadCtx)

		return nil
	})
	g.Go(func() error {
		selection = m.repo.LoadSelection(loadCtx)

		return nil
	})
	g.Go(func() error {
		parental = m.repo.LoadParental(loadCtx)

		return nil
	})
	g.Go(func() error {
		voice = m.repo.LoadVoice(loadCtx)

		return nil
	})
	g.Go(func() error {
		exists, err := m.vault.Exists(loadCtx)
		if err != nil {
			m.logger.Warn("credential existence check failed, assuming absent", "error", err)
			exists = false
		}
		credentialExists = exists

		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("activate settings menu: %w", err)
	}
	if ctx.Err() != nil {
		return fmt.Errorf("activate settings menu: %w", ctx.Err())
	}

	corrected, changed := domain.ReconcileParental(parental, credentialExists)

	m.mu.Lock()
	m.display = display
	m.selection = selection
	m.parental = corrected
	m.voice = voice
	m.credentialExists = credentialExists
	m.state = MenuReady
	m.mu.Unlock()

	if changed {
		m.logger.Warn("passcode requirement found without credential, forced off in memory")
		m.publishNoticeOnce(UserNotice{
			Kind:    NoticePasscodeRequirementCleared,
			Title:   "Passcode requirement disabled",
			Content: "No passcode is set, so the passcode requirement was turned off. Save parental settings to confirm.",
		})
	}
	m.logger.Info("settings menu ready", "credential_exists", credentialExists)

	return nil
}

func (m *MenuController) State() MenuState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

func (m *MenuController) Display() domain.DisplaySettings {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.display.Clone()
}

func (m *MenuController) Selection() domain.SelectionSettings {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.selection.Clone()
}

func (m *MenuController) Parental() domain.ParentalSettings {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.parental.Clone()
}

func (m *MenuController) Voice() domain.VoiceSettings {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.voice.Clone()
}

func (m *MenuController) CredentialExists() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.credentialExists
}

// OpenDomain routes a menu item press. Protected domains go through the
// access gate; the rest open directly.
func (m *MenuController) OpenDomain(ctx context.Context, d domain.SettingsDomain) error {
	if !d.Valid() {
		return fmt.Errorf("unknown settings domain %q", d)
	}
	m.mu.Lock()
	if m.state != MenuReady {
		m.mu.Unlock()

		return ErrMenuNotReady
	}
	if m.activeDomain != "" {
		m.mu.Unlock()

		return ErrScreenActive
	}
	m.mu.Unlock()

	// Protected domains always consult the gate so the requirement is
	// re-read fresh rather than trusted from the cached copy.
	if d.Protected() {
		return m.gate.Request(ctx, d)
	}
	m.openScreen(d)

	return nil
}

// checkRequirement re-reads the parental record and the vault state at
// challenge time; the cached menu copy is never trusted for a gating decision.
func (m *MenuController) checkRequirement(ctx context.Context) (bool, bool, error) {
	parental := m.repo.LoadParental(ctx)
	exists, err := m.vault.Exists(ctx)
	if err != nil {
		return parental.RequirePasscode, false, fmt.Errorf("check credential existence: %w", err)
	}

	m.mu.Lock()
	m.credentialExists = exists
	m.mu.Unlock()

	return parental.RequirePasscode, exists, nil
}

// openScreen binds a fresh draft reconciler to the domain and hands it to the
// screen host. It is also the gate's dispatch target for verified navigations.
func (m *MenuController) openScreen(d domain.SettingsDomain) {
	m.mu.Lock()
	if m.activeDomain != "" {
		m.mu.Unlock()
		m.logger.Warn("dropping screen open, another screen is active", "domain", d)

		return
	}
	switch d {
	case domain.DomainDisplay:
		m.displayDraft = NewDraftReconciler(m.display, m.persistDisplay, m.logger)
	case domain.DomainSelectionMode:
		m.selectionDraft = NewDraftReconciler(m.selection, m.persistSelection, m.logger)
	case domain.DomainParental:
		m.parentalEditor = NewParentalEditor(m.parental, m.persistParental, m.logger)
	case domain.DomainVoice:
		// Voice settings are collaborator-owned and committed directly.
	}
	m.activeDomain = d
	m.mu.Unlock()

	m.logger.Info("settings screen opened", "domain", d)
	if m.host != nil {
		m.host.ScreenOpened(d)
	}
}

// ActiveDomain returns the currently open screen's domain, or false.
func (m *MenuController) ActiveDomain() (domain.SettingsDomain, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeDomain == "" {
		return "", false
	}

	return m.activeDomain, true
}

// DisplayDraft returns the reconciler bound to the open display screen.
func (m *MenuController) DisplayDraft() *DraftReconciler[domain.DisplaySettings] {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.displayDraft
}

// SelectionDraft returns the reconciler bound to the open selection screen.
func (m *MenuController) SelectionDraft() *DraftReconciler[domain.SelectionSettings] {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.selectionDraft
}

// ParentalEditor returns the editor bound to the open parental screen.
func (m *MenuController) ParentalEditor() *ParentalEditor {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.parentalEditor
}

// CommitActive commits the open screen's draft. On success the screen closes;
// on failure it stays open with its draft intact for retry.
func (m *MenuController) CommitActive(ctx context.Context) error {
	m.mu.Lock()
	active := m.activeDomain
	displayDraft := m.displayDraft
	selectionDraft := m.selectionDraft
	parentalEditor := m.parentalEditor
	m.mu.Unlock()

	var err error
	switch active {
	case "":
		return ErrNoActiveScreen
	case domain.DomainDisplay:
		err = displayDraft.Commit(ctx)
	case domain.DomainSelectionMode:
		err = selectionDraft.Commit(ctx)
	case domain.DomainParental:
		err = parentalEditor.Commit(ctx)
	default:
		return fmt.Errorf("domain %q has no draft-managed screen", active)
	}
	if err != nil {
		m.logger.Warn("commit failed, draft preserved", "domain", active, "error", err)

		return err
	}
	m.closeActive()

	return nil
}

// RequestCloseActive applies the close-attempt policy for the open screen.
func (m *MenuController) RequestCloseActive() (CloseDecision, error) {
	m.mu.Lock()
	active := m.activeDomain
	displayDraft := m.displayDraft
	selectionDraft := m.selectionDraft
	parentalEditor := m.parentalEditor
	m.mu.Unlock()

	var decision CloseDecision
	switch active {
	case "":
		return CloseNow, ErrNoActiveScreen
	case domain.DomainDisplay:
		decision = displayDraft.RequestClose()
	case domain.DomainSelectionMode:
		decision = selectionDraft.RequestClose()
	case domain.DomainParental:
		decision = parentalEditor.RequestClose()
	default:
		decision = CloseNow
	}
	if decision == CloseNow {
		m.closeActive()
	}

	return decision, nil
}

// DiscardAndCloseActive resolves a ConfirmDiscard decision by dropping the
// draft and closing the screen.
func (m *MenuController) DiscardAndCloseActive() {
	m.mu.Lock()
	active := m.activeDomain
	displayDraft := m.displayDraft
	selectionDraft := m.selectionDraft
	parentalEditor := m.parentalEditor
	m.mu.Unlock()

	switch active {
	case domain.DomainDisplay:
		displayDraft.Discard()
	case domain.DomainSelectionMode:
		selectionDraft.Discard()
	case domain.DomainParental:
		parentalEditor.Discard()
	}
	if active != "" {
		m.closeActive()
	}
}

func (m *MenuController) closeActive() {
	m.mu.Lock()
	active := m.activeDomain
	m.activeDomain = ""
	m.displayDraft = nil
	m.selectionDraft = nil
	m.parentalEditor = nil
	m.mu.Unlock()

	if active == "" {
		return
	}
	m.logger.Info("settings screen closed", "domain", active)
	if m.host != nil {
		m.host.ScreenClosed(active)
	}
}

// CommitVoice passes the collaborator-owned voice payload through to storage.
func (m *MenuController) CommitVoice(ctx context.Context, settings domain.VoiceSettings) error {
	if err := m.repo.SaveVoice(ctx, settings); err != nil {
		return err
	}
	m.mu.Lock()
	m.voice = settings.Clone()
	m.mu.Unlock()
	m.publishCommitted(domain.DomainVoice)

	return nil
}

// SetPasscode stores a new credential and refreshes the cached existence
// state.
func (m *MenuController) SetPasscode(ctx context.Context, code string) error {
	if err := m.vault.Set(ctx, code); err != nil {
		return err
	}
	m.refreshCredential(ctx)

	return nil
}

// ClearPasscode removes the credential. The parental requirement is then
// reconciled in memory; it is only persisted by an explicit save.
func (m *MenuController) ClearPasscode(ctx context.Context) error {
	if err := m.vault.Reset(ctx); err != nil {
		return err
	}
	m.refreshCredential(ctx)

	return nil
}

// refreshCredential re-derives the credential existence cache and reconciles
// the passcode requirement against it.
func (m *MenuController) refreshCredential(ctx context.Context) {
	exists, err := m.vault.Exists(ctx)
	if err != nil {
		m.logger.Warn("credential existence check failed, assuming absent", "error", err)
		exists = false
	}

	m.mu.Lock()
	m.credentialExists = exists
	corrected, changed := domain.ReconcileParental(m.parental, exists)
	m.parental = corrected
	editor := m.parentalEditor
	m.mu.Unlock()

	if m.bus != nil {
		m.bus.Publish(TopicCredentialChanged, CredentialChanged{Exists: exists})
	}
	if changed {
		m.logger.Warn("passcode requirement cleared after credential removal")
		m.publishNoticeOnce(UserNotice{
			Kind:    NoticePasscodeRequirementCleared,
			Title:   "Passcode requirement disabled",
			Content: "The passcode was removed, so the passcode requirement was turned off. Save parental settings to confirm.",
		})
	}
	if !exists && editor != nil {
		// Keep the open draft consistent too; the user still confirms by saving.
		editor.SetRequirePasscode(false)
	}
}

// persistDisplay is the display draft's commit sink.
func (m *MenuController) persistDisplay(ctx context.Context, settings domain.DisplaySettings) error {
	if err := m.repo.SaveDisplay(ctx, settings); err != nil {
		return err
	}
	m.mu.Lock()
	m.display = settings.Clone()
	m.mu.Unlock()
	m.publishCommitted(domain.DomainDisplay)

	return nil
}

// persistSelection is the selection draft's commit sink.
func (m *MenuController) persistSelection(ctx context.Context, settings domain.SelectionSettings) error {
	if err := m.repo.SaveSelection(ctx, settings); err != nil {
		return err
	}
	m.mu.Lock()
	m.selection = settings.Clone()
	m.mu.Unlock()
	m.publishCommitted(domain.DomainSelectionMode)

	return nil
}

// persistParental is the parental editor's commit sink. A credential may have
// been set or removed inside the same screen, so the existence cache is
// re-derived and the invariant reconciled right after the write.
func (m *MenuController) persistParental(ctx context.Context, settings domain.ParentalSettings) error {
	if err := m.repo.SaveParental(ctx, settings); err != nil {
		return err
	}
	m.mu.Lock()
	m.parental = settings.Clone()
	m.mu.Unlock()
	m.publishCommitted(domain.DomainParental)
	m.refreshCredential(ctx)

	return nil
}

func (m *MenuController) publishCommitted(d domain.SettingsDomain) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(TopicSettingsCommitted, SettingsCommitted{Domain: d})
}

// publishNoticeOnce surfaces a notice at most once per kind for the lifetime
// of the controller.
func (m *MenuController) publishNoticeOnce(notice UserNotice) {
	m.mu.Lock()
	if m.noticeShown[notice.Kind] {
		m.mu.Unlock()

		return
	}
	m.noticeShown[notice.Kind] = true
	m.mu.Unlock()

	if m.bus != nil {
		m.bus.Publish(TopicUserNotice, notice)
	}
}
