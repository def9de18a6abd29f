package enums

// AuthProvider identifies how an account was established.
type AuthProvider string

const (
	AuthProviderTelegram AuthProvider = "telegram"
	AuthProviderGoogle   AuthProvider = "google"
)

// String implements fmt.Stringer.
func (a AuthProvider) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuthProvider.
func (a AuthProvider) IsValid() bool {
	return a == AuthProviderTelegram || a == AuthProviderGoogle
}
