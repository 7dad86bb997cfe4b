package app

import "talkpad/internal/domain"

// Bus topics published by the settings core.
const (
	TopicSettingsCommitted = "settings.committed"
	TopicCredentialChanged = "credential.changed"
	TopicUserNotice        = "notice"
	TopicAccessDecision    = "access.decision"
)

// SettingsCommitted announces that a domain's record was durably saved.
type SettingsCommitted struct {
	Domain domain.SettingsDomain
}

// CredentialChanged announces a change to the vault's existence state.
type CredentialChanged struct {
	Exists bool
}

// NoticeKind identifies a user-facing notice for one-time deduplication.
type NoticeKind string

const (
	NoticePasscodeRequirementCleared NoticeKind = "passcode_requirement_cleared"
	NoticePasscodeMissing            NoticeKind = "passcode_missing"
)

// UserNotice is a non-blocking explanatory message for the user.
type UserNotice struct {
	Kind    NoticeKind
	Title   string
	Content string
}

// AccessDecision is the terminal outcome of one protected navigation attempt.
type AccessDecision string

const (
	AccessOpenUnprotected     AccessDecision = "open_unprotected"
	AccessBlockedNoCredential AccessDecision = "blocked_no_credential"
	AccessVerified            AccessDecision = "verified"
	AccessRejected            AccessDecision = "rejected"
	AccessCancelled           AccessDecision = "cancelled"
)

// AccessOutcome is published on TopicAccessDecision for each gate resolution.
type AccessOutcome struct {
	Target   domain.SettingsDomain
	Decision AccessDecision
}
