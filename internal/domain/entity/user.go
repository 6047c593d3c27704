package entity

// UserProfile datos descriptivos del usuario autenticado.
type UserProfile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Session estado de autenticación. User != nil sii Token no está vacío y no expiró.
type Session struct {
	Token string
	User  *UserProfile
}

// Authenticated true si la sesión tiene usuario.
func (s Session) Authenticated() bool {
	return s.User != nil
}
