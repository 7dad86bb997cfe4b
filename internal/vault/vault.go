// Package vault stores and verifies the parental passcode. Callers must treat
// every error as recoverable and every failed verification as "not verified";
// nothing here is allowed to escalate past the settings core.
package vault

import "context"

// CredentialVault is the secure store contract consumed by the access gate
// and the parental screen.
type CredentialVault interface {
	// Exists reports whether a credential is currently stored.
	Exists(ctx context.Context) (bool, error)
	// Verify checks a candidate against the stored credential. A missing
	// credential or a mismatch yields (false, nil); only storage trouble
	// yields an error, and callers must fail closed on it.
	Verify(ctx context.Context, candidate string) (bool, error)
	// Set stores a new credential, overwriting any existing one.
	Set(ctx context.Context, newValue string) error
	// Reset removes the stored credential.
	Reset(ctx context.Context) error
}
