package config

import "os"

type Config struct {
	Port        string
	DataFile    string
	SecretsFile string
	StaticDir   string
	SecretKey   string
	AccessCode  string
	CookieName  string
	FrontendURL string
	WebhookURL  string
	OpenAIKey   string
}

func LoadConfig() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		DataFile:    getEnv("DATA_FILE", "db.json"),
		SecretsFile: getEnv("SECRETS_FILE", "secrets.json"),
		StaticDir:   getEnv("STATIC_DIR", "./static"),
		SecretKey:   getEnv("SECRET_KEY", ""),
		AccessCode:  getEnv("ACCESS_CODE", ""),
		CookieName:  getEnv("COOKIE_NAME", "instaflow_session"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		WebhookURL:  getEnv("WEBHOOK_URL", ""),
		OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
