package domain

// BootstrapData is everything needed to create the first administrator.
type BootstrapData struct {
	Secret      string
	Email       string
	Username    string
	DisplayName string
	Password    string
}

// Registration carries a new account request gated by an invite.
type Registration struct {
	InviteCode  string
	Email       string
	Username    string
	DisplayName string
	Password    string
}
