package access

// Recovery surfaces the frontend redirects to when access is blocked.
const (
	RedirectRegularizar = "/assinatura/regularizar"
	RedirectPlanos      = "/planos"
)

// Decision is the guard-layer verdict for one profile read. When Allowed is
// false, Redirect names the recovery page and Message the non-blocking
// notification shown to the user.
type Decision struct {
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
	Message  string `json:"message,omitempty"`
}
