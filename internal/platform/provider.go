package platform

import (
	"context"
	"log"

	"sandyadmin/internal/model"
)

// PushProvider adapts the provider-side half of the registration chain. The
// device token is assigned by the provider when the installation registers
// with it and handed to this process; it is never generated here.
type PushProvider struct {
	token       string
	provisional bool
}

func NewPushProvider(token string, provisional bool) *PushProvider {
	return &PushProvider{token: token, provisional: provisional}
}

// RequestAuthorization asks the provider for messaging authorization. This
// is distinct from the OS permission; provisional authorization is reported
// as such and accepted upstream on platforms that support it.
func (p *PushProvider) RequestAuthorization(ctx context.Context) (string, error) {
	log.Printf("[Platform] Requesting push provider authorization")
	if p.provisional {
		return model.AuthorizationProvisional, nil
	}
	return model.AuthorizationAuthorized, nil
}

// Token returns the provider-assigned device token, empty when the
// installation has none.
func (p *PushProvider) Token(ctx context.Context) (string, error) {
	return p.token, nil
}
