package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath     string
	RawMailDir string
	OutputDir  string

	HTTPAddr         string
	ResultTTLSec     int
	MaxUploadSize    string
	SheetsCredsJSON  string
	SheetsCredsFile  string
	SheetsID         string
	SheetsWorksheet  string
	MappingTTLSec    int
	SheetsTimeoutSec int

	GmailClientID     string
	GmailClientSecret string
	GmailRedirectURI  string
	GmailRefreshToken string

	IMAPHost     string
	IMAPPort     int
	IMAPSecure   bool
	IMAPUser     string
	IMAPPassword string
	IMAPMarkSeen bool

	MailListenerProvider    string
	MailListenerLabel       string
	MailListenerIntervalSec int
	MailListenerFetchMax    int
	MailListenerBatch       int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:     getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		RawMailDir: getEnv("MAIL_RAW_DIR", filepath.Join(cwd, "data", "raw")),
		OutputDir:  getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		HTTPAddr:         getEnv("HTTP_ADDR", ":8081"),
		ResultTTLSec:     getEnvInt("RESULT_TTL_SEC", 1800),
		MaxUploadSize:    getEnv("MAX_UPLOAD_SIZE", "10M"),
		SheetsCredsJSON:  getEnv("GSHEETS_CREDENTIALS_JSON", ""),
		SheetsCredsFile:  getEnv("GSHEETS_CREDENTIALS_FILE", ""),
		SheetsID:         getEnv("GSHEETS_ID", ""),
		SheetsWorksheet:  getEnv("GSHEETS_WORKSHEET", "Sheet1"),
		MappingTTLSec:    getEnvInt("MAPPING_TTL_SEC", 600),
		SheetsTimeoutSec: getEnvInt("GSHEETS_TIMEOUT_SEC", 30),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRedirectURI:  getEnv("GMAIL_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     getEnvInt("IMAP_PORT", 993),
		IMAPSecure:   getEnvBool("IMAP_SECURE", true),
		IMAPUser:     getEnv("IMAP_USER", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPMarkSeen: getEnvBool("IMAP_MARK_SEEN", false),

		MailListenerProvider:    getEnv("MAIL_LISTENER_PROVIDER", "gmail"),
		MailListenerLabel:       getEnv("MAIL_LISTENER_LABEL", "INBOX"),
		MailListenerIntervalSec: getEnvInt("MAIL_LISTENER_INTERVAL_SEC", 60),
		MailListenerFetchMax:    getEnvInt("MAIL_LISTENER_FETCH_MAX", 20),
		MailListenerBatch:       getEnvInt("MAIL_LISTENER_PROCESS_BATCH", 20),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// SheetsCredentials returns the service account key, preferring the inline
// JSON over the key file path.
func (c Config) SheetsCredentials() ([]byte, error) {
	if strings.TrimSpace(c.SheetsCredsJSON) != "" {
		return []byte(c.SheetsCredsJSON), nil
	}
	if strings.TrimSpace(c.SheetsCredsFile) != "" {
		return os.ReadFile(c.SheetsCredsFile)
	}
	return nil, fmt.Errorf("missing required env var: GSHEETS_CREDENTIALS_JSON or GSHEETS_CREDENTIALS_FILE")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
