// Package authflow implements the client-side authentication flows for the
// platform: multi-step sign-in with a second factor, staged registration,
// password recovery, and the routing decision that picks a destination after
// authentication.
//
// Session state:
//   - SessionStore owns the bearer token and its decoded claims, plus the
//     subject id, the cached representative profile id, and the one-shot
//     redirect guard. Persistence is pluggable through Storage; MemoryStorage
//     and FileStorage are provided. Subscribers are notified on every token
//     change, including sign-out.
//
// Flows:
//   - SignInFlow drives credentials then a verification code, with an email or
//     SMS channel and a resend cooldown. RegistrationFlow walks the staged
//     form (name, email, password, phone, terms) and finishes with the paired
//     email and SMS verification that activates the account. RecoveryFlow
//     covers the email, code, and new-password stages of a password reset.
//   - Each flow exposes its current Step and guards against overlapping
//     submissions; validation failures keep the flow on the same step with
//     the entered data intact.
//
// Routing:
//   - Resolver classifies the account (first login, company, representative)
//     against the backend and maps it to a destination from Destinations. The
//     session redirect guard makes Apply idempotent for a session.
//
// The social subpackage carries the LinkedIn OAuth round trip with a
// single-use state guard keyed by scope (sign-in vs sign-up).
package authflow
