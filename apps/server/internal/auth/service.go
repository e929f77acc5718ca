package auth

// Service is the auth/session contract consumed by gateway and HTTP handlers.
type Service interface {
	Register(username, password string) (accountID uint64, sessionToken string, err error)
	Login(username, password string) (accountID uint64, sessionToken string, err error)
	// Guest creates a throwaway account so players can sit down without
	// registering. nickname is optional display flair; it never has to be
	// unique.
	Guest(nickname string) (accountID uint64, sessionToken string, err error)
	ResolveSession(token string) (accountID uint64, username string, ok bool)
	Logout(token string)
	Close() error
}
