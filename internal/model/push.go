package model

// PermissionStatus is the outcome of the push permission negotiation chain.
type PermissionStatus string

const (
	// PermissionGranted means the full chain succeeded and a token was
	// registered (or at least obtained; backend registration fails soft).
	PermissionGranted PermissionStatus = "granted"

	// PermissionDenied means the OS or the push provider refused. The user
	// has been offered the system settings once.
	PermissionDenied PermissionStatus = "denied"

	// PermissionUnsupported means the device has no push support (virtual
	// devices). This is an expected early exit, not an error.
	PermissionUnsupported PermissionStatus = "unsupported"

	// PermissionUnavailable means the provider returned no usable token.
	PermissionUnavailable PermissionStatus = "unavailable"
)

// PushRegistration binds this device to the backend's notification targets.
// The token is re-derived from the provider, never invented client-side, and
// is re-sent to the backend whenever obtained. Stale tokens are inert
// server-side, so there is no explicit deletion.
type PushRegistration struct {
	Token  string
	Status PermissionStatus
}

// Authorization statuses reported by the push provider. Provisional counts as
// success on platforms that support it.
const (
	AuthorizationAuthorized  = "authorized"
	AuthorizationProvisional = "provisional"
	AuthorizationDenied      = "denied"
)

// MessageOrigin records which delivery path an inbound message arrived on.
type MessageOrigin string

const (
	OriginForeground MessageOrigin = "foreground"
	OriginBackground MessageOrigin = "background"
	OriginColdStart  MessageOrigin = "cold-start"
	OriginTap        MessageOrigin = "user-tap"
)

// AppState is the process foreground/background status at the moment a
// message is handled. It is passed explicitly into message handling rather
// than tracked in module-level state.
type AppState string

const (
	AppStateActive     AppState = "active"
	AppStateBackground AppState = "background"
)
