package access

import (
	"testing"

	"juriszap-app/internal/domain/users"

	"github.com/stretchr/testify/assert"
)

func TestComputeDecision(t *testing.T) {
	cases := []struct {
		name         string
		status       string
		wantAllowed  bool
		wantRedirect string
	}{
		{"ativo passes", users.StatusAtivo, true, ""},
		{"atrasado goes to regularizar", users.StatusPagamentoAtrasado, false, RedirectRegularizar},
		{"inativo goes to planos", users.StatusInativo, false, RedirectPlanos},
		{"unknown status treated as inativo", "whatever", false, RedirectPlanos},
		{"empty status treated as inativo", "", false, RedirectPlanos},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := ComputeDecision(users.User{StatusAssinatura: tc.status})
			assert.Equal(t, tc.wantAllowed, d.Allowed)
			assert.Equal(t, tc.wantRedirect, d.Redirect)
			if !tc.wantAllowed {
				assert.NotEmpty(t, d.Message, "blocked decisions carry a user-facing message")
			}
		})
	}
}
