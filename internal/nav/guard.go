package nav

// Route groups partition the navigation tree into unauthenticated and
// authenticated screens.
const (
	GroupAuth = "(auth)"
	GroupTabs = "(tabs)"
)

// Redirect targets.
const (
	LoginRoute  = "/(auth)/login"
	OrdersRoute = "/(tabs)/orders"
)

// Decision is the outcome of one guard evaluation. A zero Decision means no
// redirect is required.
type Decision struct {
	Redirect bool
	Target   string
}

func redirect(target string) Decision {
	return Decision{Redirect: true, Target: target}
}

// Decide is the navigation guard: a pure function of (loading, authentication
// state, current route segments). It is evaluated after every auth change and
// every route change, plus once after the initial restore completes.
//
// Rules:
//  1. unauthenticated outside the auth group -> login
//  2. authenticated inside the auth group    -> orders
//  3. authenticated at the bare tabs root    -> orders
//
// No rule fires while the initial session restore is in flight.
func Decide(loading, authenticated bool, segments []string) Decision {
	if loading {
		return Decision{}
	}

	var head string
	if len(segments) > 0 {
		head = segments[0]
	}

	inAuthGroup := head == GroupAuth

	switch {
	case !authenticated && !inAuthGroup:
		return redirect(LoginRoute)
	case authenticated && inAuthGroup:
		return redirect(OrdersRoute)
	case authenticated && head == GroupTabs && len(segments) == 1:
		// At the tabs root with no tab selected. Separate from rule 2 so
		// being already past the auth group cannot redirect-loop.
		return redirect(OrdersRoute)
	default:
		return Decision{}
	}
}
