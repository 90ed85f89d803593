package access

import "juriszap-app/internal/domain/users"

// ComputeDecision maps statusAssinatura to an access verdict. The states are
// not terminal: a later successful renewal or plan purchase moves the profile
// back to ativo and the guard lets the session through again.
func ComputeDecision(u users.User) Decision {
	switch u.StatusAssinatura {
	case users.StatusAtivo:
		return Decision{Allowed: true}

	case users.StatusPagamentoAtrasado:
		return Decision{
			Allowed:  false,
			Redirect: RedirectRegularizar,
			Message:  "Seu pagamento está atrasado. Regularize para continuar usando o JurisZap.",
		}

	default:
		// inativo, or anything unexpected, locks the account to plan selection.
		return Decision{
			Allowed:  false,
			Redirect: RedirectPlanos,
			Message:  "Sua assinatura não está ativa. Escolha um plano para continuar.",
		}
	}
}
