package stripe

import (
	"testing"

	"juriszap-app/internal/domain/users"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSubscriptionStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"active", users.StatusAtivo},
		{"trialing", users.StatusAtivo},
		{"past_due", users.StatusPagamentoAtrasado},
		{"unpaid", users.StatusPagamentoAtrasado},
		{"incomplete", users.StatusPagamentoAtrasado},
		{"canceled", users.StatusInativo},
		{"incomplete_expired", users.StatusInativo},
		{" active ", users.StatusAtivo},
		{"something_new", users.StatusInativo},
		{"", users.StatusInativo},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeSubscriptionStatus(tc.in), "stripe status %q", tc.in)
	}
}
