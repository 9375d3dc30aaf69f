package config

import "os"

type Config struct {
	Port             string
	DBPath           string
	GeminiAPIKey     string
	GeminiModel      string
	EmailJSServiceID string
	EmailJSTemplate  string
	EmailJSPublicKey string
	EmailJSBaseURL   string
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.DBPath = getenv("DB_PATH", "./przejscie.db")
	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	c.GeminiModel = getenv("GEMINI_MODEL", "gemini-3-pro-image-preview")
	c.EmailJSServiceID = getenv("EMAILJS_SERVICE_ID", "service_bpst954")
	c.EmailJSTemplate = getenv("EMAILJS_TEMPLATE_ID", "template_u5172bb")
	c.EmailJSPublicKey = getenv("EMAILJS_PUBLIC_KEY", "f9Vj1_DeGaLrqDCl0")
	c.EmailJSBaseURL = os.Getenv("EMAILJS_BASE_URL")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
