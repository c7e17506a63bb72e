package email

// Config holds email service configuration.
// Postmark tokens are optional to support development environments where
// outbound email is disabled; SenderEmail establishes the from identity.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL"`
	SupportEmail         string `env:"SUPPORT_EMAIL"`
	FrontendURL          string `env:"FRONTEND_URL" envDefault:"http://localhost:8000"`
	AppName              string `env:"APP_NAME" envDefault:"Fund Dashboard"`
}
