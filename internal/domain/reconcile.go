package domain

// ReconcileParental enforces the credential invariant: RequirePasscode may
// only be true while a credential exists in the vault. The corrected value
// lives in memory until the user performs an explicit save; callers must not
// persist it on their own. The second result reports whether a correction was
// applied so the caller can surface a one-time notice.
func ReconcileParental(p ParentalSettings, credentialExists bool) (ParentalSettings, bool) {
	if !p.RequirePasscode || credentialExists {
		return p, false
	}
	corrected := p.Clone()
	corrected.RequirePasscode = false
	return corrected, true
}
