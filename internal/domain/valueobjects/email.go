package valueobjects

import "strings"

// Email é o email do usuário, sempre normalizado (minúsculo, sem espaços).
// O valor zero representa ausência de email.
type Email struct {
	value string
}

// TrustedEmail normaliza um email já validado em outro lugar (claim do provedor
// de identidade ou valor lido do banco). Vazio significa ausência de email.
func TrustedEmail(email string) Email {
	return Email{value: strings.TrimSpace(strings.ToLower(email))}
}

// String retorna o valor do email
func (e Email) String() string {
	return e.value
}

// IsZero indica ausência de email
func (e Email) IsZero() bool {
	return e.value == ""
}
